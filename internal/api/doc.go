// Package api 處理 HTTP 請求路由。
//
// 處理器（handlers）將 HTTP 請求轉換為服務調用，並將結果與領域錯誤轉換回 HTTP 響應。
package api
