package redis

import (
	"fmt"

	"github.com/mcoot/charvault/internal/model"
)

// Key prefix for all vault data
const keyPrefix = "charvault"

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// characterKey returns the Redis key for a Character
func characterKey(id model.CharacterID) string {
	return fmt.Sprintf("%s:character:%s", keyPrefix, id)
}

// charactersForAccountIndexKey returns the Redis key for the SET of character keys owned by an account
func charactersForAccountIndexKey(owner model.AccountID) string {
	return fmt.Sprintf("%s:idx:characters_for_account:%s", keyPrefix, owner)
}

// itemKey returns the Redis key for an Item
func itemKey(code model.ItemCode) string {
	return fmt.Sprintf("%s:item:%d", keyPrefix, code)
}

// itemsIndexKey returns the Redis key for the ZSET of item keys scored by item code
func itemsIndexKey() string {
	return fmt.Sprintf("%s:idx:items", keyPrefix)
}
