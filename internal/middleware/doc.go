// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含玩家 session token 驗證、以玩家為單位的限流與請求日誌。
package middleware
