package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/duskcap/optionengine/internal/engine/payoff"
	"github.com/duskcap/optionengine/pkg/api"
	"github.com/duskcap/optionengine/pkg/history"
)

var (
	flagProduct   string
	flagSide      string
	flagSpot      float64
	flagStrike    float64
	flagRate      float64
	flagVol       float64
	flagTime      float64
	flagSeed      uint64
	flagSteps     int
	flagObs       int
	flagExPoints  int
	flagBarrier   float64
	flagBarrierK  string
	flagRebate    float64
	flagLookback  string
	flagHistoryDB string
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price an option against the pricing engine",
	Args:  cobra.NoArgs,
	RunE:  runPrice,
}

func init() {
	priceCmd.Flags().StringVar(&flagProduct, "product", "european", "product: european|american|binomial-american|binomial-european|lsm-american|asian|barrier|lookback")
	priceCmd.Flags().StringVar(&flagSide, "side", "call", "call|put")
	priceCmd.Flags().Float64Var(&flagSpot, "spot", 100, "spot price")
	priceCmd.Flags().Float64Var(&flagStrike, "strike", 100, "strike price")
	priceCmd.Flags().Float64Var(&flagRate, "rate", 0.05, "risk-free rate")
	priceCmd.Flags().Float64Var(&flagVol, "vol", 0.2, "volatility")
	priceCmd.Flags().Float64Var(&flagTime, "time", 1.0, "time to expiry in years")
	priceCmd.Flags().Uint64Var(&flagSeed, "seed", 42, "RNG seed")
	priceCmd.Flags().IntVar(&flagSteps, "steps", 100, "binomial lattice steps")
	priceCmd.Flags().IntVar(&flagObs, "observations", 52, "Asian averaging observation count")
	priceCmd.Flags().IntVar(&flagExPoints, "exercise-points", 50, "American exercise date count (LSM)")
	priceCmd.Flags().Float64Var(&flagBarrier, "barrier", 120, "barrier level")
	priceCmd.Flags().StringVar(&flagBarrierK, "barrier-kind", "up-out", "up-out|up-in|down-out|down-in")
	priceCmd.Flags().Float64Var(&flagRebate, "rebate", 0, "barrier knock-out rebate")
	priceCmd.Flags().StringVar(&flagLookback, "lookback-mode", "floating", "floating|fixed")
	priceCmd.Flags().StringVar(&flagHistoryDB, "history-db", "", "record this call to a SQLite history file (optional)")
}

func barrierKind(s string) payoff.BarrierType {
	switch strings.ToLower(s) {
	case "up-in":
		return payoff.UpIn
	case "down-out":
		return payoff.DownOut
	case "down-in":
		return payoff.DownIn
	default:
		return payoff.UpOut
	}
}

func lookbackMode(s string) payoff.LookbackMode {
	if strings.ToLower(s) == "fixed" {
		return payoff.Fixed
	}
	return payoff.Floating
}

func runPrice(cmd *cobra.Command, args []string) error {
	c := api.New()
	c.SetSeed(flagSeed)

	isCall := strings.EqualFold(flagSide, "call")
	s, k, r, vol, t := flagSpot, flagStrike, flagRate, flagVol, flagTime

	var res api.Result
	switch strings.ToLower(flagProduct) {
	case "european":
		if isCall {
			res = api.EuropeanCall(c, s, k, r, vol, t)
		} else {
			res = api.EuropeanPut(c, s, k, r, vol, t)
		}
	case "american":
		if isCall {
			res = api.AmericanCall(c, s, k, r, vol, t, flagExPoints)
		} else {
			res = api.AmericanPut(c, s, k, r, vol, t, flagExPoints)
		}
	case "binomial-american":
		if isCall {
			res = api.BinomialAmericanCallSteps(c, s, k, r, vol, t, flagSteps)
		} else {
			res = api.BinomialAmericanPutSteps(c, s, k, r, vol, t, flagSteps)
		}
	case "binomial-european":
		if isCall {
			res = api.BinomialEuropeanCallSteps(c, s, k, r, vol, t, flagSteps)
		} else {
			res = api.BinomialEuropeanPutSteps(c, s, k, r, vol, t, flagSteps)
		}
	case "lsm-american":
		if isCall {
			res = api.LSMAmericanCall(c, s, k, r, vol, t, flagExPoints)
		} else {
			res = api.LSMAmericanPut(c, s, k, r, vol, t, flagExPoints)
		}
	case "asian":
		if isCall {
			res = api.AsianArithmeticCall(c, s, k, r, vol, t, flagObs)
		} else {
			res = api.AsianArithmeticPut(c, s, k, r, vol, t, flagObs)
		}
	case "barrier":
		kind := barrierKind(flagBarrierK)
		if isCall {
			res = api.BarrierCall(c, s, k, r, vol, t, flagBarrier, kind, flagRebate)
		} else {
			res = api.BarrierPut(c, s, k, r, vol, t, flagBarrier, kind, flagRebate)
		}
	case "lookback":
		mode := lookbackMode(flagLookback)
		if isCall {
			res = api.LookbackCall(c, s, k, r, vol, t, mode)
		} else {
			res = api.LookbackPut(c, s, k, r, vol, t, mode)
		}
	default:
		return fmt.Errorf("pricectl: unknown product %q", flagProduct)
	}

	fmt.Printf("price: %.6f\ncompute_time: %s\n", res.Price, res.ComputeTime)

	if flagHistoryDB != "" {
		if err := recordHistory(res); err != nil {
			return err
		}
	}
	return nil
}

func recordHistory(res api.Result) error {
	db, err := history.Open(flagHistoryDB)
	if err != nil {
		return fmt.Errorf("pricectl: open history db: %w", err)
	}
	defer db.Close()

	return db.Record(history.CallRecord{
		Timestamp: time.Now(),
		Method:    flagProduct,
		Side:      strings.ToLower(flagSide),
		Style:     flagProduct,
		Spot:      flagSpot,
		Strike:    flagStrike,
		Rate:      flagRate,
		Vol:       flagVol,
		Time:      flagTime,
		Seed:      flagSeed,
		Price:     res.Price,
		ComputeMS: float64(res.ComputeTime.Microseconds()) / 1000.0,
	})
}
