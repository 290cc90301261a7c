package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ppiankov/heirtrace/internal/graph"
	"github.com/ppiankov/heirtrace/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	graphDeceased  string
	graphCytoscape string
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect the family graph of a case",
}

var graphHeirsCmd = &cobra.Command{
	Use:   "heirs <case>",
	Short: "List the graph heirs of the deceased person of a case",
	Long: `Heirs builds the pedigree graph of a case file and prints the heirs found
by the succession cascade (children, grandchildren, siblings, then nieces
and nephews) as JSON. Source payloads and manual heir records are ignored.

Example:
  heirtrace graph heirs case.yaml
  heirtrace graph heirs case.yaml --deceased p7 --cytoscape graph.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphHeirs,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphHeirsCmd)

	graphHeirsCmd.Flags().StringVar(&graphDeceased, "deceased", "", "deceased person id (default: the case's deceased_id)")
	graphHeirsCmd.Flags().StringVar(&graphCytoscape, "cytoscape", "", "also write the graph in Cytoscape.js format to this path")
}

func runGraphHeirs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := pipeline.LoadCase(args[0])
	if err != nil {
		return err
	}
	deceased := c.DeceasedID
	if graphDeceased != "" {
		deceased = graphDeceased
	}
	if deceased == "" {
		return fmt.Errorf("case has no deceased_id; pass --deceased")
	}

	g, err := graph.FromCase(c)
	if err != nil {
		return fmt.Errorf("build pedigree: %w", err)
	}
	if cfg.Graph.MaxGenerations > 0 {
		g.MaxGenerations = cfg.Graph.MaxGenerations
	}

	links, err := g.IdentifyHeirs(deceased)
	if err != nil {
		return fmt.Errorf("identify heirs: %w", err)
	}

	if graphCytoscape != "" {
		if err := writeJSON(graphCytoscape, g.Cytoscape()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", graphCytoscape)
	}

	return printHeirLinks(cmd.OutOrStdout(), g, links)
}

// heirLinkView is a HeirLink with the person's name
type heirLinkView struct {
	graph.HeirLink
	Name string `json:"name,omitempty"`
}

func printHeirLinks(w io.Writer, g *graph.Graph, links []graph.HeirLink) error {
	views := make([]heirLinkView, 0, len(links))
	for _, l := range links {
		v := heirLinkView{HeirLink: l}
		if p, ok := g.Person(l.PersonID); ok {
			v.Name = p.Name()
		}
		views = append(views, v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
