package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/charvault/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter writing to out and errOut
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Account:
		o.printAccount(v)
	case response.Token:
		o.printToken(v)
	case response.Character:
		o.printCharacter(v)
	case response.CharacterList:
		o.printCharacterList(v)
	case response.CharacterDeleted:
		o.printf("Deleted character: %s\n", v.CharacterID)
	case response.Item:
		o.printItem(v)
	case response.ItemList:
		o.printItemList(v)
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.out, format, args...)
}

func (o *Output) printAccount(a response.Account) {
	o.printf("Account: %s (%s)\n", a.Name, a.AccountID)
}

func (o *Output) printToken(t response.Token) {
	o.printAccount(t.Account)
	o.printf("Token: %s\n", t.Token)
	o.printf("Expires: %s\n", t.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printCharacter(c response.Character) {
	o.printf("Character: %s\n", c.CharacterID)
	o.printf("Owner: %s\n", c.AccountID)
	o.printf("Health: %d\n", c.Health)
	o.printf("Power: %d\n", c.Power)
	if c.Money != nil {
		o.printf("Money: %d\n", *c.Money)
	}
}

func (o *Output) printCharacterList(l response.CharacterList) {
	o.printf("Characters (%d):\n", len(l.Characters))
	for _, c := range l.Characters {
		o.printf("  - %s (health %d, power %d)\n", c.CharacterID, c.Health, c.Power)
	}
}

func (o *Output) printItem(i response.Item) {
	o.printf("Item %d: %s\n", i.ItemCode, i.ItemName)
	o.printf("Atk: %d\n", i.Atk)
	o.printf("Price: %d\n", i.Price)
}

func (o *Output) printItemList(l response.ItemList) {
	o.printf("Items (%d):\n", len(l.Items))
	for _, i := range l.Items {
		o.printf("  %d  %s  (%d)\n", i.ItemCode, i.ItemName, i.Price)
	}
}
