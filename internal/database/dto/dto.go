package dto

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type NotePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
