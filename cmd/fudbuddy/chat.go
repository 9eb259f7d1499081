package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"fud-buddy/gateway/pkg/chat"
	"fud-buddy/gateway/pkg/cli"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/stream"
)

var chatFlags struct {
	chatType string
	stream   bool
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask FUD Buddy through a running gateway",
	Long: `Send a message to the gateway at --server and print the reply.

With no message argument, chat reads one message per line from stdin until
EOF or "exit".

Chat types: whereToGo, whatToOrder, somethingFun, home (default).

Examples:
  fudbuddy chat "quick lunch downtown?"
  fudbuddy chat --type whatToOrder --stream "first time at a ramen bar"`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatFlags.chatType, "type", "t", string(chat.TypeHome), "chat type")
	chatCmd.Flags().BoolVar(&chatFlags.stream, "stream", false, "stream the reply as it is generated")
}

// answer is the JSON form of a reply printed with --output json.
type answer struct {
	Response string `json:"response"`
	Cached   bool   `json:"cached,omitempty"`
	Model    string `json:"model,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

func runChat(cmd *cobra.Command, args []string) error {
	if _, err := chat.ParseType(chatFlags.chatType); err != nil {
		return cli.NewConfigError("type", err.Error())
	}
	p, err := printer(cmd)
	if err != nil {
		return err
	}
	client := stream.NewClient(serverURL)
	ctx := cmd.Context()

	if len(args) > 0 {
		if err := ask(ctx, p, client, strings.Join(args, " ")); err != nil {
			return cli.NewCommandError("chat", err)
		}
		return nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if !p.JSON() {
			p.Label("You: ")
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			break
		}
		if err := ask(ctx, p, client, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.Failure("%v", err)
		}
	}
	return scanner.Err()
}

func ask(ctx context.Context, p *cli.Printer, client *stream.Client, message string) error {
	req := stream.ChatRequest{Message: message, ChatType: chatFlags.chatType}
	if chatFlags.stream {
		return askStream(ctx, p, client, req)
	}

	var resp types.ChatResponse
	if err := client.Call(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return printFailure(p, err)
	}
	return printAnswer(p, answer{Response: resp.Response, Cached: resp.Cached, Model: resp.Model})
}

func askStream(ctx context.Context, p *cli.Printer, client *stream.Client, req stream.ChatRequest) error {
	s, err := client.Chat(ctx, req)
	if err != nil {
		return printFailure(p, err)
	}

	var (
		full     strings.Builder
		fallback bool
	)
	if !p.JSON() {
		p.Label("FUD Buddy: ")
	}
	for ev := range s.Events() {
		if ev.Fallback {
			fallback = true
			if !p.JSON() {
				p.Newline()
				p.Warning("the model stopped early; here is a fallback suggestion")
			}
		}
		full.WriteString(ev.Text())
		if !p.JSON() {
			p.Reply(ev.Text())
		}
	}

	err = s.Wait()
	if !p.JSON() {
		p.Newline()
	}
	if errors.Is(err, stream.ErrCanceled) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.JSON() {
		return p.Encode(answer{Response: full.String(), Fallback: fallback})
	}
	return nil
}

// printFailure shows the fallback reply carried by a failed call, if any,
// and returns err for the caller to report.
func printFailure(p *cli.Printer, err error) error {
	var se *stream.StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch {
	case se.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("rate limited, retry in %s", se.RetryAfter)
	case se.Response != "":
		if perr := printAnswer(p, answer{Response: se.Response, Fallback: true}); perr != nil {
			return perr
		}
		return nil
	}
	return err
}

func printAnswer(p *cli.Printer, a answer) error {
	if p.JSON() {
		return p.Encode(a)
	}
	if a.Fallback {
		p.Warning("the model is unavailable; here is a fallback suggestion")
	}
	p.Label("FUD Buddy: ")
	p.Reply(a.Response)
	p.Newline()
	return nil
}
