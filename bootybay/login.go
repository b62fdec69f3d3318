// Copyright (c) 2025 BVK Chaitanya

package bootybay

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"golang.org/x/term"
)

// Credentials hold the Battle.net login. Password may be empty, in
// which case Login prompts on the terminal.
type Credentials struct {
	Email    string
	Password string
}

// PromptPassword reads the password from the terminal without echo.
func (c *Credentials) PromptPassword() error {
	if len(c.Password) != 0 {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Battle.net password for %s: ", c.Email)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("could not read password: %w", err)
	}
	c.Password = string(data)
	return nil
}

// Login drives a browser through the Battle.net login and returns the
// resulting session cookies. The browser window is visible because the
// login may require an authenticator confirmation on the user's phone.
func Login(ctx context.Context, baseURL string, creds *Credentials) ([]*http.Cookie, error) {
	if len(creds.Email) == 0 {
		return nil, fmt.Errorf("battle.net email is not configured: %w", os.ErrInvalid)
	}
	if err := creds.PromptPassword(); err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(1024, 768),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var cookies []*network.Cookie
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(baseURL),
		chromedp.Click(".battle-net", chromedp.ByQuery),
		chromedp.WaitVisible("#accountName", chromedp.ByID),
		chromedp.SendKeys("#accountName", creds.Email, chromedp.ByID),
		chromedp.SendKeys("#password", creds.Password, chromedp.ByID),
		chromedp.Click("#submit", chromedp.ByID),
		// The authenticator round-trip can take a while.
		chromedp.WaitVisible("#header-realm", chromedp.ByID),
		chromedp.Sleep(time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("could not complete battle.net login: %w", err)
	}

	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: c.Domain,
			Path:   c.Path,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("login produced no session cookies")
	}
	return out, nil
}
