package cmd

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vinay-billa-slu/ai-agent-blogger/publisher"
)

var diagPostTest bool

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check XML-RPC connectivity and credentials against the site",
	Long: `diagnose dials every candidate XML-RPC endpoint for the configured
site, tries to list blogs with the configured credentials, and reports
what worked. With --post-test it also creates a draft test post.`,
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().BoolVar(&diagPostTest, "post-test", false, "also create a draft test post on the first working endpoint")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(*cobra.Command, []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateFor(string(publisher.TransportXMLRPC)); err != nil {
		return err
	}

	pub := publisher.New(cfg, slog.Default())
	reports := pub.Diagnose(diagPostTest)

	healthy := false
	for _, r := range reports {
		fmt.Println(titleStyle.Render(r.Endpoint))
		switch {
		case r.DialError != nil:
			fmt.Printf("  %s %v\n", failStyle.Render("dial failed:"), r.DialError)
		case r.AuthError != nil:
			fmt.Printf("  %s %v\n", failStyle.Render("auth failed:"), r.AuthError)
		default:
			healthy = true
			fmt.Printf("  %s\n", okStyle.Render("authenticated"))
			for _, b := range r.Blogs {
				fmt.Printf("  %s %s (%s) %s\n", labelStyle.Render("blog"), b.BlogID, b.Name, b.URL)
			}
			if diagPostTest {
				if r.TestPostError != nil {
					fmt.Printf("  %s %v\n", failStyle.Render("test post failed:"), r.TestPostError)
				} else {
					fmt.Printf("  %s draft id %s\n", okStyle.Render("test post created:"), r.TestPostID)
				}
			}
		}
		fmt.Println()
	}

	if !healthy {
		return fmt.Errorf("no XML-RPC endpoint accepted the credentials")
	}
	return nil
}
