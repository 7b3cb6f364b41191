package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinay-billa-slu/ai-agent-blogger/publisher"
	"github.com/vinay-billa-slu/ai-agent-blogger/quality"
)

var postTopic string

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Run the full pipeline: pick a topic, generate, publish, log",
	Long: `post runs one complete publishing cycle. It asks the model for a
topic (unless --topic is given), generates and repairs the article,
runs the quality gate, publishes over XML-RPC with email fallback, and
appends the outcome to the run log.`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVar(&postTopic, "topic", "", "publish about this topic instead of asking the model")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateFor(string(publisher.TransportXMLRPC)); err != nil {
		return err
	}
	if err := cfg.ValidateFor(cfg.EmailCarrier()); err != nil {
		slog.Warn("email fallback not configured, only XML-RPC will be attempted", "error", err)
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	gen, err := buildGenerator(cfg, llm)
	if err != nil {
		return err
	}

	topic := postTopic
	if topic == "" {
		topic = gen.ChooseTopic(ctx)
	}
	slog.Info("topic selected", "topic", topic)

	post, err := gen.GeneratePost(ctx, topic)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	if err := quality.RunBasicChecks(post); err != nil {
		return fmt.Errorf("quality gate rejected the article: %w", err)
	}

	pub := publisher.New(cfg, slog.Default())
	res, pubErr := pub.PublishWithFallback(ctx, post)

	record := publisher.RunRecord{
		Topic:     topic,
		Result:    res,
		Timestamp: time.Now().Unix(),
	}
	if err := publisher.AppendRunLog(cfg.LogPath, record); err != nil {
		slog.Warn("could not append run log", "path", cfg.LogPath, "error", err)
	}

	if pubErr != nil {
		return pubErr
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
