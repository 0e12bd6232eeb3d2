// Package cli is the interactive text-menu surface of the store. All
// prompting, raw-input parsing and confirmation collection lives here; the
// services it drives own the persisted state.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Skotchmaster/shop_cli/internal/auth"
	"github.com/Skotchmaster/shop_cli/internal/catalog"
)

type App struct {
	sellers *auth.Service
	buyers  *auth.Service
	catalog *catalog.Service
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(sellers, buyers *auth.Service, cat *catalog.Service, in io.Reader, out io.Writer) *App {
	return &App{
		sellers: sellers,
		buyers:  buyers,
		catalog: cat,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

const rootMenu = `
Welcome to the Online Store!
1. Login as Seller
2. Login as Buyer
3. Sign Up (Seller)
4. Sign Up (Buyer)
5. Exit

Select an option: `

// Run drives the top-level menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		choice, err := a.prompt(rootMenu)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			if username, ok := a.login(ctx, a.sellers); ok {
				a.sellerMenu(ctx, username)
			}
		case "2":
			if _, ok := a.login(ctx, a.buyers); ok {
				a.buyerMenu(ctx)
			}
		case "3":
			a.signUp(ctx, a.sellers)
		case "4":
			a.signUp(ctx, a.buyers)
		case "5":
			fmt.Fprintln(a.out, "Exiting...")
			return nil
		default:
			fmt.Fprintln(a.out, "Invalid choice. Please select a valid option.")
		}
	}
}

// login runs the two-phase flow: password check, code issuance, then a
// second authenticate with the code the user typed back.
func (a *App) login(ctx context.Context, users *auth.Service) (string, bool) {
	username, err := a.prompt("Username: ")
	if err != nil {
		return "", false
	}
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return "", false
	}
	if username == "" || password == "" {
		fmt.Fprintln(a.out, "Username or password is incorrect, please try again.")
		return "", false
	}

	if err := users.Authenticate(ctx, username, password, ""); err != nil {
		fmt.Fprintln(a.out, "Authentication failed. Please try again.")
		return "", false
	}

	code, err := users.IssueCode(ctx, username)
	if err != nil {
		fmt.Fprintln(a.out, "Authentication failed. Please try again.")
		return "", false
	}
	fmt.Fprintf(a.out, "SMS code sent to %s. Code: %s\n", username, code)

	entered, err := a.prompt("Please enter your SMS code: ")
	if err != nil {
		return "", false
	}
	if err := users.Authenticate(ctx, username, password, entered); err != nil {
		fmt.Fprintln(a.out, "Authentication failed. Please try again.")
		return "", false
	}
	return username, true
}

func (a *App) signUp(ctx context.Context, users *auth.Service) {
	username, err := a.prompt("New Username: ")
	if err != nil {
		return
	}
	password, err := a.promptPassword("New Password: ")
	if err != nil {
		return
	}

	switch err := users.Register(ctx, username, password); {
	case err == nil:
		fmt.Fprintln(a.out, "Sign up successful!")
	case errors.Is(err, auth.ErrUserExists):
		fmt.Fprintln(a.out, "Username already exists. Please try a different one.")
	case errors.Is(err, auth.ErrWeakPassword):
		fmt.Fprintln(a.out, "Password is not strong. It should be at least 8 characters long and contain "+
			"at least one uppercase letter, one lowercase letter, one number, and one special character.")
	case errors.Is(err, auth.ErrInvalidUsername):
		fmt.Fprintln(a.out, "Username must not be empty.")
	default:
		fmt.Fprintf(a.out, "Sign up failed: %v\n", err)
	}
}
