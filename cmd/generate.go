package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vinay-billa-slu/ai-agent-blogger/generator"
	"github.com/vinay-billa-slu/ai-agent-blogger/publisher"
	"github.com/vinay-billa-slu/ai-agent-blogger/quality"
)

var (
	genTopic     string
	genDryRun    bool
	genShow      bool
	genSave      bool
	genTransport string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an article without running the full pipeline",
	Long: `generate produces a single article and stops there. Combine with
--show to print it, --save to write it to a file, or --transport to
send it over one specific channel (no fallback).`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "write about this topic instead of asking the model")
	generateCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "build the transport payload but skip the network send")
	generateCmd.Flags().BoolVar(&genShow, "show", false, "print the article to the terminal")
	generateCmd.Flags().BoolVar(&genSave, "save", false, "save the article to a timestamped file")
	generateCmd.Flags().StringVar(&genTransport, "transport", "", "send via this transport: gmail or rest")
	rootCmd.AddCommand(generateCmd)
}

func resolveTransport(name string) (publisher.Transport, error) {
	switch name {
	case "gmail":
		return publisher.TransportEmail, nil
	case "rest":
		return publisher.TransportREST, nil
	default:
		return "", fmt.Errorf("unknown transport %q (want gmail or rest)", name)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// A dry run with no explicit transport previews the email payload.
	if genDryRun && genTransport == "" {
		genTransport = "gmail"
	}

	var transport publisher.Transport
	if genTransport != "" {
		transport, err = resolveTransport(genTransport)
		if err != nil {
			return err
		}
		target := string(transport)
		if transport == publisher.TransportEmail {
			target = cfg.EmailCarrier()
		}
		if err := cfg.ValidateFor(target); err != nil {
			return err
		}
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	gen, err := buildGenerator(cfg, llm)
	if err != nil {
		return err
	}

	topic := genTopic
	if topic == "" {
		topic = gen.ChooseTopic(ctx)
	}
	slog.Info("topic selected", "topic", topic)

	post, err := gen.GeneratePost(ctx, topic)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := quality.RunBasicChecks(post); err != nil {
		if genTransport != "" && !genDryRun {
			return fmt.Errorf("quality gate rejected the article: %w", err)
		}
		slog.Warn("article failed the quality gate", "error", err)
	}

	if genShow {
		showPost(post)
	}
	if genSave {
		path, err := savePost(post)
		if err != nil {
			return err
		}
		fmt.Printf("saved to %s\n", path)
	}
	if genTransport == "" {
		if !genShow && !genSave {
			fmt.Println(post.Title)
		}
		return nil
	}

	pub := publisher.New(cfg, slog.Default())
	if genDryRun {
		payload := pub.BuildPayload(post, transport)
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	res, err := pub.Publish(ctx, post, transport)
	if err != nil {
		return err
	}
	fmt.Printf("Published %q via %s\n", post.Title, res.Transport)
	if res.Link != "" {
		fmt.Println(res.Link)
	}
	if res.SentTo != "" {
		fmt.Printf("sent to %s\n", res.SentTo)
	}
	return nil
}

func showPost(post generator.Post) {
	fmt.Println(titleStyle.Render(post.Title))
	if post.Subtitle != "" {
		fmt.Println(labelStyle.Render(post.Subtitle))
	}
	fmt.Println()
	fmt.Println(post.Body)
	if len(post.Tags) > 0 {
		fmt.Println()
		fmt.Println(labelStyle.Render("tags: ") + tagStyle.Render(strings.Join(post.Tags, ", ")))
	}
}

func savePost(post generator.Post) (string, error) {
	ext := ".md"
	if post.Format == generator.FormatHTML {
		ext = ".html"
	}
	path := fmt.Sprintf("article_%s%s", time.Now().Format("20060102T150405"), ext)

	var b strings.Builder
	if post.Format == generator.FormatMarkdown && !strings.HasPrefix(post.Body, "# ") {
		fmt.Fprintf(&b, "# %s\n\n", post.Title)
	}
	b.WriteString(post.Body)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
