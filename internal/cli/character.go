package cli

import (
	"github.com/spf13/cobra"
)

func newCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Character commands",
	}

	cmd.AddCommand(newCharacterCreateCmd())
	cmd.AddCommand(newCharacterListCmd())
	cmd.AddCommand(newCharacterShowCmd())
	cmd.AddCommand(newCharacterDeleteCmd())

	return cmd
}

func newCharacterCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <character-id>",
		Short: "Create a character owned by the logged in account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := client.CreateCharacter(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			newOutput(cmd).Print(created)
			return nil
		},
	}
}

func newCharacterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List characters owned by the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := client.ListCharacters(cmd.Context())
			if err != nil {
				return err
			}

			newOutput(cmd).Print(list)
			return nil
		},
	}
}

func newCharacterShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <character-id>",
		Short: "Show a character; money is only shown to its owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := client.GetCharacter(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			newOutput(cmd).Print(view)
			return nil
		},
	}
}

func newCharacterDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <character-id>",
		Short: "Delete a character owned by the logged in account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := client.DeleteCharacter(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			newOutput(cmd).Print(deleted)
			return nil
		},
	}
}
