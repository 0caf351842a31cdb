package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errUsage = errors.New("usage")

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password and creates the account. The
// new account is logged in right away.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Register(ctx, email, password)
	if err != nil {
		return a.report(err)
	}

	a.setUser(u.Email)
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return a.report(err)
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return a.report(err)
	}

	a.setUser(u.Email)
	if u.IsAdmin {
		fmt.Fprintln(a.out, "Logged in as administrator")
	} else {
		fmt.Fprintln(a.out, "Login successful")
	}
	return nil
}

// Logout forgets the token and wipes the local cache.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return a.report(err)
	}
	a.setUser("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// DeleteAccount asks for confirmation and then removes the account together
// with every todo it created.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.requireLogin() {
		return client.ErrUnauthorized
	}

	answer, err := getSimpleText(a.reader, "Delete the account and all of its todos? (yes/no)", a.out)
	if err != nil {
		return a.report(err)
	}
	if !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.authService.DeleteAccount(ctx); err != nil {
		return a.report(err)
	}
	a.setUser("")
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}

func (a *App) List(ctx context.Context) error {
	if !a.requireLogin() {
		return client.ErrUnauthorized
	}

	list, cached, err := a.todoService.List(ctx)
	if err != nil {
		return a.report(err)
	}

	if cached {
		fmt.Fprintln(a.out, "Server unavailable, showing cached list")
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No todos")
		return nil
	}
	for _, t := range list {
		fmt.Fprintf(a.out, "%s %s  %s\n", t.Mark(), t.ID, t.Title)
	}
	return nil
}

// Add creates a todo. The title comes from the arguments or, when none are
// given, from a prompt.
func (a *App) Add(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return client.ErrUnauthorized
	}

	title, err := a.titleFrom(args)
	if err != nil {
		return a.report(err)
	}

	t, err := a.todoService.Add(ctx, title)
	if err != nil {
		return a.report(err)
	}
	a.printTodo(t)
	return nil
}

func (a *App) Done(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, true)
}

func (a *App) Undo(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, args, false)
}

func (a *App) setCompleted(ctx context.Context, args []string, completed bool) error {
	if !a.requireLogin() {
		return client.ErrUnauthorized
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: done|undo <id>")
		return errUsage
	}

	t, err := a.todoService.SetCompleted(ctx, args[0], completed)
	if err != nil {
		return a.report(err)
	}
	a.printTodo(t)
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return client.ErrUnauthorized
	}
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: rename <id> [title]")
		return errUsage
	}

	title, err := a.titleFrom(args[1:])
	if err != nil {
		return a.report(err)
	}

	t, err := a.todoService.Rename(ctx, args[0], title)
	if err != nil {
		return a.report(err)
	}
	a.printTodo(t)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.requireLogin() {
		return client.ErrUnauthorized
	}
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return errUsage
	}

	if err := a.todoService.Delete(ctx, args[0]); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) titleFrom(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return getSimpleText(a.reader, "Enter title", a.out)
}

func (a *App) requireLogin() bool {
	if a.isLoggedIn() {
		return true
	}
	fmt.Fprintln(a.out, "Please log in first")
	return false
}

func (a *App) printTodo(t *models.Todo) {
	fmt.Fprintf(a.out, "%s %s  %s\n", t.Mark(), t.ID, t.Title)
}

// report prints a short message for err and returns it unchanged.
func (a *App) report(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Not permitted")
	case errors.Is(err, client.ErrNotFound):
		fmt.Fprintln(a.out, "Not found")
	case errors.Is(err, client.ErrAlreadyExists):
		fmt.Fprintln(a.out, "Account already exists")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	default:
		fmt.Fprintf(a.out, "Error: %s\n", err)
	}
	return err
}
