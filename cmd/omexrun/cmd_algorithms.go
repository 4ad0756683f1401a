package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reprobio/omexrun/internal/kisao"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported simulation algorithms",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			algorithms := kisao.Algorithms()

			if jsonOut {
				list := make([]map[string]any, len(algorithms))
				for i, alg := range algorithms {
					params := make([]map[string]string, len(alg.Parameters))
					for j, p := range alg.Parameters {
						params[j] = map[string]string{
							"kisao_id": p.KisaoID,
							"name":     p.Name,
							"kind":     string(p.Kind),
						}
					}
					list[i] = map[string]any{
						"kisao_id":   alg.KisaoID,
						"name":       alg.Name,
						"parameters": params,
					}
				}
				json.NewEncoder(os.Stdout).Encode(map[string]any{"algorithms": list})
				return
			}

			for _, alg := range algorithms {
				fmt.Printf("%s  %s\n", alg.KisaoID, alg.Name)
				for _, p := range alg.Parameters {
					fmt.Printf("    %s  %s (%s)\n", p.KisaoID, p.Name, p.Kind)
				}
			}
		},
	}
}
