package model

// ItemCode is the numeric catalog key of an item
type ItemCode int

// Item is an entry in the shared item catalog
type Item struct {
	Code  ItemCode
	Name  string
	Atk   int
	Price int
}
