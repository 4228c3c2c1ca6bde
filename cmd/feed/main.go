// Command feed logs in to the backend and prints the feed page by page.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jrsteele09/go-social-frontend/apiclient"
	"github.com/jrsteele09/go-social-frontend/auth"
	"github.com/jrsteele09/go-social-frontend/credentials/memstore"
	"github.com/jrsteele09/go-social-frontend/internal/config"
	"github.com/jrsteele09/go-social-frontend/posts"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	c := config.New()

	apiURL := flag.String("api", c.GetAPIBaseURL(), "backend base URL")
	user := flag.String("user", os.Getenv("FEED_USER"), "email or username")
	pages := flag.Int("pages", 0, "stop after this many pages (0 pages until the feed ends)")
	limit := flag.Int("limit", c.GetPageSize(), "posts per page")
	interactive := flag.Bool("i", false, "wait for enter before loading the next page")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if level, err := zerolog.ParseLevel(c.GetLogLevel()); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, c, *apiURL, *user, os.Getenv("FEED_PASSWORD"), *limit, *pages, *interactive); err != nil {
		log.Error().Err(err).Msg("feed")
		os.Exit(1)
	}
}

func run(ctx context.Context, c config.Config, apiURL, user, password string, limit, pages int, interactive bool) error {
	if user == "" || password == "" {
		return fmt.Errorf("set -user (or FEED_USER) and FEED_PASSWORD")
	}

	env := apiclient.NewEnvironment(apiURL, "", false)
	session := auth.New(auth.NewHTTPBackend(apiclient.New(env, nil)), memstore.New(), c)
	client := apiclient.New(env, session, apiclient.WithLoginRequiredHook(func(err error) {
		log.Warn().Err(err).Msg("Session ended, log in again")
	}))

	snap, err := session.Login(ctx, user, password)
	if err != nil {
		return err
	}
	defer session.Logout(context.WithoutCancel(ctx))
	fmt.Printf("Logged in as @%s\n\n", snap.User.Username)

	svc := posts.NewService(client)
	first, err := svc.List(ctx, limit, nil)
	if err != nil {
		return err
	}
	feed := svc.Feed(first, limit)
	defer feed.Close()

	printed := printPosts(feed.Items(), 0)
	in := bufio.NewScanner(os.Stdin)
	for page := 1; feed.HasMore() && (pages == 0 || page < pages); page++ {
		if interactive {
			fmt.Print("-- more --")
			if !in.Scan() {
				break
			}
		}
		if err := feed.LoadMore(ctx); err != nil {
			return err
		}
		printed = printPosts(feed.Items(), printed)
	}
	if !feed.HasMore() {
		fmt.Println("-- end of feed --")
	}
	return nil
}

// printPosts prints items[from:] and returns the new count.
func printPosts(items []posts.Post, from int) int {
	for _, p := range items[from:] {
		fmt.Printf("#%d @%s  %s  (%d likes, %d comments)\n", p.ID, p.User.Username, p.CreatedAt.Format(time.DateTime), p.Likes, p.Comments)
		if p.Title != "" {
			fmt.Println(p.Title)
		}
		if content := strings.TrimSpace(p.Content); content != "" {
			fmt.Println(content)
		}
		fmt.Println()
	}
	return len(items)
}
