// Command chat is a terminal client for the relay: it submits questions,
// renders the reply as it streams in, and keeps the conversation correlated
// through the relay's interaction id.
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/careline/relay/pkg/client"
	"github.com/careline/relay/pkg/conversation"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	noticeStyle    = lipgloss.NewStyle().Faint(true)
)

func main() {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive terminal client for the careline relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), serverURL)
		},
	}
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "relay base URL")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(ctx context.Context, serverURL string) error {
	state := conversation.New()
	c := client.New(serverURL, state)

	fmt.Println(noticeStyle.Render("Connected to " + serverURL + ". /new starts over, /image <path> attaches a picture, /quit exits."))

	var pendingImages []string
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userStyle.Render("you> "))
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return nil
		case line == "/new":
			c.Reset()
			pendingImages = nil
			fmt.Println(noticeStyle.Render("Started a new chat."))
			continue
		case strings.HasPrefix(line, "/image "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/image "))
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Println(noticeStyle.Render("Could not read image: " + err.Error()))
				continue
			}
			pendingImages = append(pendingImages, base64.StdEncoding.EncodeToString(data))
			fmt.Println(noticeStyle.Render("Image attached. Send a message (or an empty one) to submit it."))
			continue
		case line == "" && len(pendingImages) == 0:
			continue
		}

		fmt.Print(assistantStyle.Render("assistant> "))
		gotReply := false
		err := c.Send(ctx, line, pendingImages, func(delta string) {
			gotReply = true
			fmt.Print(delta)
		})
		pendingImages = nil

		// A failure before any reply text shows the apology the transcript
		// carries; a mid-stream failure keeps the partial text as-is.
		if err != nil && !gotReply {
			fmt.Print(client.Apology)
		}
		fmt.Println()
	}
}
