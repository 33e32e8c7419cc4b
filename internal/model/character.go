package model

type Character struct {
	ID        int64
	GameID    int64
	Title     string
	Level     *int
	Grade     *string
	Overpower *int
	Position  *string
	Memo      *string
	IsHave    bool
}

type CharacterPatch struct {
	Level     *int
	Grade     *string
	Overpower *int
	IsHave    *bool
}
