package domain

type Category struct {
	ID    int64
	Name  string
	Emoji string
}
