package entity

// UserState шаг диалога сравнения деталей
type UserState string

const (
	StateMainMenu            UserState = "main_menu"             // В главном меню
	StateAwaitingFirstPiece  UserState = "awaiting_first_piece"  // Ожидание фото первой детали
	StateAwaitingSecondPiece UserState = "awaiting_second_piece" // Ожидание фото второй детали
	StateProcessing          UserState = "processing"            // Фото обрабатывается
)

// User пользователь бота и его место в диалоге
type User struct {
	ID           int64     // Telegram User ID
	ChatID       int64     // Telegram Chat ID
	State        UserState // Текущий шаг
	FirstPieceID string    // деталь с первого фото, пока ждём второе
}

// NewUser создаёт пользователя в главном меню
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState меняет только шаг; запомненная деталь сохраняется
func (u *User) SetState(state UserState) {
	u.State = state
}

// BeginMatch начинает сравнение заново
func (u *User) BeginMatch() {
	u.State = StateAwaitingFirstPiece
	u.FirstPieceID = ""
}

// RememberFirstPiece запоминает первую деталь и ждёт вторую
func (u *User) RememberFirstPiece(pieceID string) {
	u.FirstPieceID = pieceID
	u.State = StateAwaitingSecondPiece
}

// Reset возвращает в главное меню
func (u *User) Reset() {
	u.State = StateMainMenu
	u.FirstPieceID = ""
}

// AwaitingPhoto true, если следующим сообщением ждём фото детали
func (u *User) AwaitingPhoto() bool {
	return u.State == StateAwaitingFirstPiece || u.State == StateAwaitingSecondPiece
}
