package model

// Limits on generator input supplied by API callers.
const (
	MaxCharLength = 1024
	MaxSetRunes   = 1024
	MaxWordList   = 10000
)

// CharGenerateRequest represents a character password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true) and explicit false.
type CharGenerateRequest struct {
	Length    int            `json:"length"`
	Lowercase *bool          `json:"lowercase"`
	Uppercase *bool          `json:"uppercase"`
	Numbers   *bool          `json:"numbers"`
	Symbols   *bool          `json:"symbols"`
	Sets      *CharacterSets `json:"sets,omitempty"`
	Batch     int            `json:"batch,omitempty"`
}

// CharacterSets overrides the characters of individual categories. Nil fields keep the defaults.
type CharacterSets struct {
	Lowercase *string `json:"lowercase"`
	Uppercase *string `json:"uppercase"`
	Numbers   *string `json:"numbers"`
	Special   *string `json:"special"`
}

// WordGenerateRequest represents a passphrase generation request.
type WordGenerateRequest struct {
	Count        int      `json:"count"`
	Words        []string `json:"words,omitempty"`
	UseSeparator *bool    `json:"use_separator"`
	Separator    *string  `json:"separator"`
	Capitalize   *bool    `json:"capitalize"`
	Batch        int      `json:"batch,omitempty"`
}

// GenerateResponse represents a generation response. Passwords is only set for batches.
type GenerateResponse struct {
	Mode      string   `json:"mode"`
	Password  string   `json:"password"`
	Length    int      `json:"length"`
	Passwords []string `json:"passwords,omitempty"`
}
