package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpetrov/screener/internal/config"
	"github.com/mpetrov/screener/internal/rate"
	"github.com/mpetrov/screener/internal/resume"
)

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive screening conversation",
	Long: `Start an interactive screening conversation against a running server.

Type messages at the prompt. Use /reset to start over and /status to see
what has been disclosed so far. Exit with /quit or Ctrl-D.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(ctx, "/v1/sessions", nil)
		if err != nil {
			return err
		}
		var sess struct {
			ID       string `json:"id"`
			Greeting string `json:"greeting"`
		}
		if err := decodeJSON(resp, &sess); err != nil {
			return err
		}

		fmt.Printf("%s %s\n", colorize(colorBold, "recruiter:"), sess.Greeting)

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print(colorize(colorCyan, "you: "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())

			switch line {
			case "/quit", "/exit":
				return nil
			case "/reset":
				resp, err := client.post(ctx, "/v1/sessions/"+sess.ID+"/reset", nil)
				if err != nil {
					return err
				}
				var reset struct {
					Greeting string `json:"greeting"`
				}
				if err := decodeJSON(resp, &reset); err != nil {
					return err
				}
				fmt.Printf("%s %s\n", colorize(colorBold, "recruiter:"), reset.Greeting)
				continue
			case "/status":
				if err := printSessionStatus(cmd, client, sess.ID); err != nil {
					printError("%v", err)
				}
				continue
			}

			reply, err := sendChatMessage(ctx, client, sess.ID, line)
			if err != nil {
				printError("%v", err)
				continue
			}
			fmt.Printf("%s %s\n", colorize(colorBold, "recruiter:"), reply)
		}
	},
}

// sendChatMessage posts one message and returns the recruiter reply. Error
// envelopes from the server carry a candidate-facing message; surface that
// instead of the raw status line.
func sendChatMessage(ctx context.Context, client *apiClient, sessionID, content string) (string, error) {
	resp, err := client.post(ctx, "/v1/sessions/"+sessionID+"/messages", map[string]string{"content": content})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&payload); decodeErr == nil && payload.Error.Message != "" {
			return "", fmt.Errorf("%s", payload.Error.Message)
		}
		return "", fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func printSessionStatus(cmd *cobra.Command, client *apiClient, sessionID string) error {
	resp, err := client.get(cmd.Context(), "/v1/sessions/"+sessionID)
	if err != nil {
		return err
	}
	var status struct {
		Turns     int `json:"turns"`
		Candidate struct {
			NameDisclosed       bool     `json:"name_disclosed"`
			SkillsDisclosed     bool     `json:"skills_disclosed"`
			ExperienceDisclosed bool     `json:"experience_disclosed"`
			QuotedRate          *float64 `json:"quoted_rate"`
			Band                string   `json:"band"`
		} `json:"candidate"`
	}
	if err := decodeJSON(resp, &status); err != nil {
		return err
	}

	printStatus("Turns", "%d", status.Turns)
	printStatus("Name", "%s", disclosedLabel(status.Candidate.NameDisclosed))
	printStatus("Skills", "%s", disclosedLabel(status.Candidate.SkillsDisclosed))
	printStatus("Experience", "%s", disclosedLabel(status.Candidate.ExperienceDisclosed))
	if status.Candidate.QuotedRate != nil {
		printStatus("Rate", "$%s/hr (%s)",
			strconv.FormatFloat(*status.Candidate.QuotedRate, 'f', -1, 64),
			status.Candidate.Band)
	} else {
		printStatus("Rate", "not shared")
	}
	return nil
}

func disclosedLabel(ok bool) string {
	if ok {
		return "disclosed"
	}
	return "not shared"
}

// --- screen ---

var screenCmd = &cobra.Command{
	Use:   "screen <file>...",
	Short: "Screen resume files against the position requirements",
	Long: `Screen one or more resume files (.pdf, .txt, .md) without a conversation.

Extracts the same facts the chatbot tracks: name, relevant skills,
experience mentions, and a quoted hourly rate with its negotiation band.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := resume.ScreenBatch(cmd.Context(), args)
		if err != nil {
			return err
		}

		for _, r := range results {
			fmt.Printf("\n%s\n", colorize(colorBold, r.Path))
			printStatus("Name", "%s", disclosedLabel(r.Candidate.NameDisclosed))
			printStatus("Skills", "%s", disclosedLabel(r.Candidate.SkillsDisclosed))
			printStatus("Experience", "%s", disclosedLabel(r.Candidate.ExperienceDisclosed))
			if r.Candidate.QuotedRate == nil {
				printStatus("Rate", "not found")
				continue
			}
			printStatus("Rate", "$%s/hr %s",
				strconv.FormatFloat(*r.Candidate.QuotedRate, 'f', -1, 64),
				bandLabel(r.Band))
		}
		return nil
	},
}

func bandLabel(b rate.Band) string {
	switch b {
	case rate.Acceptable:
		return colorize(colorGreen, "(acceptable)")
	case rate.Negotiable:
		return colorize(colorYellow, "(negotiable)")
	default:
		return colorize(colorRed, "("+string(b)+")")
	}
}

// --- transcript ---

var transcriptCmd = &cobra.Command{
	Use:   "transcript <session-id>",
	Short: "Show the audit transcript for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/transcripts/"+args[0])
		if err != nil {
			return err
		}

		var turns []struct {
			CreatedAt string `json:"created_at"`
			UserText  string `json:"user_text"`
			Reply     string `json:"reply"`
			Status    string `json:"status"`
			Detail    string `json:"detail"`
		}
		if err := decodeJSON(resp, &turns); err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(turns)
		}

		if len(turns) == 0 {
			fmt.Println("No turns recorded.")
			return nil
		}

		for _, t := range turns {
			fmt.Printf("%s  %s\n", t.CreatedAt, colorize(colorCyan, t.Status))
			fmt.Printf("  candidate: %s\n", t.UserText)
			if t.Reply != "" {
				fmt.Printf("  recruiter: %s\n", t.Reply)
			}
			if t.Detail != "" {
				fmt.Printf("  detail:    %s\n", t.Detail)
			}
		}
		return nil
	},
}

func init() {
	transcriptCmd.Flags().Bool("json", false, "print raw JSON")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}
