package game

// ErrorKind 將錯誤分類，決定 API 回應的狀態碼
type ErrorKind string

const (
	KindAuthorization ErrorKind = "authorization"
	KindPrecondition  ErrorKind = "precondition"
	KindValidation    ErrorKind = "validation"
	KindConcurrency   ErrorKind = "concurrency"
	KindNotFound      ErrorKind = "not_found"
)

// Error 是帶標籤的領域錯誤，Code 會原樣回傳給客戶端
type Error struct {
	Kind ErrorKind
	Code string
}

func (e *Error) Error() string {
	return e.Code
}

func newError(kind ErrorKind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

var (
	ErrNotHost     = newError(KindAuthorization, "not_host")
	ErrNotSaboteur = newError(KindAuthorization, "not_saboteur")
	ErrForbidden   = newError(KindAuthorization, "forbidden")
	ErrNotOwner    = newError(KindAuthorization, "not_owner")

	ErrBadState      = newError(KindPrecondition, "bad_state")
	ErrBadStage      = newError(KindPrecondition, "bad_stage")
	ErrBadGame       = newError(KindPrecondition, "bad_game")
	ErrLocked        = newError(KindPrecondition, "locked")
	ErrNotLocked     = newError(KindPrecondition, "not_locked")
	ErrAlreadyLocked = newError(KindPrecondition, "already_locked")
	ErrAlreadyUsed   = newError(KindPrecondition, "already_used")
	ErrNotReady      = newError(KindPrecondition, "not_ready")
	ErrNoAction      = newError(KindPrecondition, "no_action")
	ErrNoSnapshot    = newError(KindPrecondition, "no_snapshot")
	ErrFull          = newError(KindPrecondition, "full")
	ErrCodeExhausted = newError(KindPrecondition, "code_exhausted")

	ErrBadItem        = newError(KindValidation, "bad_item")
	ErrBadIndex       = newError(KindValidation, "bad_index")
	ErrBadStatus      = newError(KindValidation, "bad_status")
	ErrBadZone        = newError(KindValidation, "bad_zone")
	ErrBadSlot        = newError(KindValidation, "bad_slot")
	ErrBadTarget      = newError(KindValidation, "bad_target")
	ErrBadAction      = newError(KindValidation, "bad_action")
	ErrBadPlayer      = newError(KindValidation, "bad_player")
	ErrBadPokemon     = newError(KindValidation, "bad_pokemon")
	ErrBadCategory    = newError(KindValidation, "bad_category")
	ErrBadSize        = newError(KindValidation, "bad_size")
	ErrBadRound       = newError(KindValidation, "bad_round")
	ErrEmpty          = newError(KindValidation, "empty")
	ErrBadCommand     = newError(KindValidation, "bad_command")
	ErrUnknownCommand = newError(KindValidation, "unknown_command")

	ErrConflict = newError(KindConcurrency, "conflict")

	ErrRoundNotFound = newError(KindNotFound, "round_not_found")
	ErrNoCode        = newError(KindNotFound, "no_code")
	ErrRoomNotFound  = newError(KindNotFound, "room_not_found")
)
