package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools wires every tool onto the SDK server. Input schemas are
// inferred from the handler input structs, except draw_demand whose schema is
// hand-tuned below.
func (s *Server) registerTools(server *sdk.Server) {
	sdk.AddTool(server, &sdk.Tool{
		Name:        "assign_treatment",
		Description: "Assign a demand treatment to a participant (random unless an index is given) and hydrate their session.",
	}, s.handleAssign)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_unit_costs",
		Description: "Return the participant's per-unit economics and the implied critical fractile.",
	}, s.handleUnitCosts)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_optimal_order_quantity",
		Description: "Compute the profit-maximizing order quantity for the participant's treatment.",
	}, s.handleOptimalOrder)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "draw_demand",
		Description: "Draw a batch of simulated demand for the participant; optionally apply a supply disruption (permanently doubles volatility).",
		InputSchema: drawDemandSchema(),
	}, s.handleDrawDemand)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "play_round",
		Description: "Settle one game round: realize demand for the round, score the order, and record the outcome in the participant's history.",
	}, s.handlePlayRound)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "get_history",
		Description: "Return the participant's per-period game history and cumulative profit.",
	}, s.handleHistory)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "forecast_profit",
		Description: "Forecast the profit distribution for a candidate order quantity against the participant's drawn demand.",
	}, s.handleForecast)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "export_treatment",
		Description: "Serialize the participant's treatment, including cached parameters and disruption state.",
	}, s.handleExport)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "restore_treatment",
		Description: "Reconstruct a participant's treatment from a previously exported blob, replacing any existing session.",
	}, s.handleRestore)

	sdk.AddTool(server, &sdk.Tool{
		Name:        "sweep_profiles",
		Description: "Evaluate every treatment arm: fitted parameters, optimal order quantity and a seeded profit forecast.",
	}, s.handleSweep)
}

func drawDemandSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"participant_id": {
				Type:        "string",
				Description: "identifier of the participant session",
			},
			"size": {
				Type:        "integer",
				Description: "number of draws; defaults to the configured sample size. Must be positive.",
			},
			"disrupt": {
				Type:        "boolean",
				Description: "apply the disruption transform before drawing; doubles sigma permanently and compounds on repeat",
			},
			"include_samples": {
				Type:        "boolean",
				Description: "return the raw draws instead of just the batch summary",
			},
		},
		Required: []string{"participant_id"},
	}
}
