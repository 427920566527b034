package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"github.com/rohits-web03/accountabilabuddy/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		s, err := a.board.Signup(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed up and logged in as %s\n", s.Username)
		return nil
	}),
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		s, err := a.board.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", s.Username)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.board.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		s, ok := a.board.Session()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "guest (not logged in)")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", s.Username, s.ID)
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the board",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		g, err := a.board.Grouped(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderBoard(g, time.Now()))
		return nil
	}),
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create an open todo",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		description, _ := cmd.Flags().GetString("description")
		public, _ := cmd.Flags().GetBool("public")

		visibility := models.VisibilityPrivate
		if public {
			visibility = models.VisibilityPublic
		}
		t, err := a.board.Create(cmd.Context(), models.TodoInput{
			Title:       strings.Join(args, " "),
			Description: description,
			Visibility:  visibility,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", shortID(t.ID), t.Title)
		return nil
	}),
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a todo's title, description or visibility",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		var patch models.TodoPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			patch.Title = &v
		}
		if flags.Changed("description") {
			v, _ := flags.GetString("description")
			patch.Description = &v
		}
		if flags.Changed("visibility") {
			v, _ := flags.GetString("visibility")
			vis := models.Visibility(v)
			patch.Visibility = &vis
		}
		if patch.IsEmpty() {
			return errors.New("nothing to change; pass --title, --description or --visibility")
		}

		id, err := lookupID(cmd.Context(), a, args[0])
		if err != nil {
			return err
		}
		if err := a.board.Update(cmd.Context(), id, patch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", shortID(id))
		return nil
	}),
}

var moveCmd = &cobra.Command{
	Use:   "move <id> <state>",
	Short: "Move a todo to open, in_progress, blocked or closed",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		to, err := parseState(args[1])
		if err != nil {
			return err
		}
		id, err := lookupID(cmd.Context(), a, args[0])
		if err != nil {
			return err
		}
		if err := a.board.Move(cmd.Context(), id, to); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", shortID(id), to.Label())
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := lookupID(cmd.Context(), a, args[0])
		if err != nil {
			return err
		}
		if err := a.board.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
		return nil
	}),
}

var friendCmd = &cobra.Command{
	Use:   "friend",
	Short: "Manage friends",
}

var friendAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Follow another user's public todos",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if err := a.board.AddFriend(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s as a friend\n", args[0])
		return nil
	}),
}

var friendsCmd = &cobra.Command{
	Use:   "friends",
	Short: "Show your friends' public todos",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		fmt.Fprintln(cmd.OutOrStdout(), renderFriends(a.board.FriendTodos(), time.Now()))
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <image>",
	Short: "Create todos from a photo of a list",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if a.importer == nil {
			return errors.New("no import service configured; set import_url")
		}
		image, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		items, err := a.importer.Extract(cmd.Context(), image)
		if err != nil {
			return err
		}
		n, err := a.board.Import(cmd.Context(), items)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d todos\n", n, len(items))
		return err
	}),
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive board",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return tui.Run(cmd.Context(), a.board)
	}),
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringP("password", "p", "", "password (prompted for when omitted)")
	}

	addCmd.Flags().StringP("description", "d", "", "todo description")
	addCmd.Flags().Bool("public", false, "show the todo to friends")

	editCmd.Flags().StringP("title", "t", "", "new title")
	editCmd.Flags().StringP("description", "d", "", "new description")
	editCmd.Flags().String("visibility", "", "private or public")

	friendCmd.AddCommand(friendAddCmd)
}

func lookupID(ctx context.Context, a *app, ref string) (string, error) {
	todos, err := a.board.Todos(ctx)
	if err != nil {
		return "", err
	}
	return resolveID(todos, ref)
}

// readPassword takes --password, prompting without echo on a terminal and
// reading one line from stdin otherwise.
func readPassword(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("password") {
		return cmd.Flags().GetString("password")
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(b), err
	}
	return readLine(cmd.InOrStdin())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
