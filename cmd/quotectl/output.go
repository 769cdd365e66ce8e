package main

import (
	"fmt"

	coreapi "landscape-quote/pkg/api"
)

// printResult renders a pipeline result for terminal use.
func printResult(result *coreapi.PipelineResult, fullTrace bool) {
	if result.Error != nil {
		fmt.Printf("FAILED [%s] %s\n", result.Error.Code, result.Error.Message)
		if result.Error.RetryHint != "" {
			fmt.Printf("  hint: %s\n", result.Error.RetryHint)
		}
		return
	}

	if result.ClarificationNeeded {
		fmt.Println("More information needed:")
		for _, q := range result.ClarificationQuestions {
			fmt.Printf("  - %s\n", q)
		}
	}

	if fr := result.FinalResult; fr != nil {
		fmt.Println("Quote:")
		for _, s := range fr.Services {
			fmt.Printf("  %-24s %8.2f %-12s $%10.2f  %5.1fh\n",
				s.CanonicalName, s.Quantity, s.Unit, s.TotalCost, s.LaborHours)
		}
		for _, sc := range fr.SpecialCalculations {
			fmt.Printf("  %s: setup $%.2f + variable $%.2f\n",
				sc.CanonicalName, sc.SetupCost, sc.VariableCost)
		}
		fmt.Printf("  %-24s %22s $%10.2f  %5.1fh\n",
			"TOTAL", "", fr.Totals.TotalCost, fr.Totals.TotalLaborHours)
	}

	if fullTrace {
		fmt.Println("Trace:")
		for _, t := range result.Debug {
			fmt.Printf("  [%s] %dms", t.Step, t.ProcessingTimeMs)
			for _, info := range t.Info {
				fmt.Printf("  %s", info)
			}
			fmt.Println()
			for _, w := range t.Warnings {
				fmt.Printf("    warn: %s\n", w)
			}
		}
	}
}
