package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/ai"
	"github.com/aetherpro/scout/internal/classify"
	"github.com/aetherpro/scout/internal/outreach"
	"github.com/aetherpro/scout/internal/pipeline"
	"github.com/aetherpro/scout/internal/research"
	"github.com/aetherpro/scout/internal/scrape"
	"github.com/aetherpro/scout/internal/search"
	"github.com/aetherpro/scout/internal/storage"
)

var (
	discoverKeywords   []string
	discoverMaxResults int
	discoverNoOutreach bool
	discoverConfig     string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run a discovery pipeline pass",
	Long: `Run the full discovery pipeline: bulk search, dedup, relevance
filtering, deep research, content extraction, structuring, persistence, and
outreach drafting.

Required environment:
  ANTHROPIC_API_KEY   classification oracle
  GROK_API_KEY        bulk web search
  TAVILY_API_KEY      deep research

Optional environment:
  FIRECRAWL_API_KEY   rendered-page scraping (falls back to direct fetch)
  SCOUT_MODEL         oracle model override
  SCOUT_ORACLE_URL    Anthropic-compatible endpoint override

Examples:
  scout discover                                   # configured keywords
  scout discover --keywords="LangChain agent"      # explicit keywords
  scout discover --max-results=20 --no-outreach`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := pipeline.LoadConfig(discoverConfig)
		if err != nil {
			fatal("%v", err)
		}
		if discoverMaxResults > 0 {
			cfg.MaxResults = discoverMaxResults
		}
		if discoverNoOutreach {
			cfg.OutreachEnabled = false
		}

		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		oracle, err := ai.NewClient(&ai.Config{BaseURL: os.Getenv("SCOUT_ORACLE_URL")})
		if err != nil {
			fatal("oracle setup: %v", err)
		}
		if err := oracle.HealthCheck(ctx); err != nil {
			fatal("oracle setup: %v", err)
		}

		grok, err := search.NewGrokProvider(nil)
		if err != nil {
			fatal("search setup: %v", err)
		}

		tavily, err := research.NewTavilyClient(nil)
		if err != nil {
			fatal("research setup: %v", err)
		}

		var extractor scrape.Extractor
		if firecrawl, err := scrape.NewFirecrawlExtractor(nil); err == nil {
			extractor = firecrawl
		} else {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Printf("%s %v; falling back to direct page fetch\n", yellow("Warning:"), err)
			extractor = scrape.NewLocalExtractor(0)
		}

		orch, err := pipeline.NewOrchestrator(cfg, pipeline.Deps{
			Store:      store,
			Searcher:   search.NewSweeper(grok, 0),
			Filterer:   classify.NewRelevanceFilter(oracle, cfg.RelevanceThreshold),
			Researcher: research.NewAdapter(tavily, cfg.SourcesPerLead),
			Extractor:  extractor,
			Structurer: classify.NewStructurer(oracle, cfg.MarkdownPromptLimit),
			Persister:  storage.NewGateway(store),
			Drafter:    outreach.NewDrafter(oracle),
		})
		if err != nil {
			fatal("%v", err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("\n%s\n\n", cyan("=== Scout Discovery Run ==="))

		run, err := orch.Run(ctx, discoverKeywords)
		if run != nil {
			printRunSummary(run)
		}
		if err != nil {
			fatal("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().StringSliceVar(&discoverKeywords, "keywords", nil, "Comma-separated search keywords (overrides config)")
	discoverCmd.Flags().IntVar(&discoverMaxResults, "max-results", 0, "Cap on unique leads per run (overrides config)")
	discoverCmd.Flags().BoolVar(&discoverNoOutreach, "no-outreach", false, "Skip outreach drafting")
	discoverCmd.Flags().StringVar(&discoverConfig, "config", "", "Config file path (default .scout/discovery.yaml)")
}
