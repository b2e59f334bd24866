package cli

import "fmt"

// runInteractiveMode drives a prompt loop: pick a market, research it,
// repeat. The config is re-read per run so hot-reloaded config.json
// edits take effect between runs.
func runInteractiveMode(loader *configLoader) error {
	DisplayWelcomeBanner()

	for {
		marketID, err := PromptForMarketID()
		if err != nil {
			// survey returns an error on Ctrl-C; treat it as exit.
			fmt.Println("\n👋 Thanks for using AugurGo!")
			return nil
		}

		refresh, err := PromptForRefresh()
		if err != nil {
			return nil
		}
		intermediate, err := PromptForIntermediate()
		if err != nil {
			return nil
		}

		if err := runResearchCommand(loader.current(), marketID, refresh, intermediate); err != nil {
			fmt.Printf("❌ Research failed: %v\n\n", err)
		}

		again, err := PromptForAnotherRun()
		if err != nil || !again {
			fmt.Println("👋 Thanks for using AugurGo!")
			return nil
		}
		fmt.Println()
	}
}
