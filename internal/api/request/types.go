package request

// JoinRequest is the request body for registering an account
type JoinRequest struct {
	AccountID       string `json:"account_id"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	AccountID string `json:"account_id"`
	Password  string `json:"password"`
}

// CreateCharacterRequest is the request body for creating a character.
// The owner always comes from the bearer token.
type CreateCharacterRequest struct {
	CharacterID string `json:"character_id"`
}

// CreateItemRequest is the request body for adding a catalog item
type CreateItemRequest struct {
	ItemCode int    `json:"item_code"`
	ItemName string `json:"item_name"`
	Atk      int    `json:"atk"`
	Price    int    `json:"price"`
}

// UpdateItemRequest is the request body for editing an item
type UpdateItemRequest struct {
	ItemName string `json:"item_name"`
	Atk      int    `json:"atk"`
}
