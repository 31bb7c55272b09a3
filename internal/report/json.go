package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gamma-omg/coin-backtest/internal/strategy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JsonReportBuilder struct {
	log    *zap.Logger
	report JsonReport
	mu     sync.Mutex
}

type JsonReport struct {
	Runs []JsonRun `json:"runs"`
}

type JsonRun struct {
	ID           string         `json:"run_id"`
	Name         string         `json:"name"`
	Strategy     string         `json:"strategy"`
	StartCapital string         `json:"start_capital"`
	Capital      string         `json:"capital"`
	Gains        string         `json:"gains"`
	GainPct      float64        `json:"gain_pct"`
	Trades       int            `json:"trades"`
	Refused      int            `json:"refused,omitempty"`
	Holdings     []JsonPosition `json:"holdings,omitempty"`
}

type JsonPosition struct {
	BuyPrice string `json:"buy_price"`
	Amount   string `json:"amount"`
}

func NewJsonReportBuilder(log *zap.Logger) *JsonReportBuilder {
	return &JsonReportBuilder{
		log: log,
		report: JsonReport{
			Runs: []JsonRun{},
		},
	}
}

// Submit records a finished run and returns the id assigned to it.
func (r *JsonReportBuilder) Submit(res strategy.Result) string {
	run := JsonRun{
		ID:           uuid.New().String(),
		Name:         res.Name,
		Strategy:     res.Kind,
		StartCapital: res.StartCapital.String(),
		Capital:      res.Final.Capital.String(),
		Gains:        res.Final.Gains.String(),
		GainPct:      res.GainPct(),
		Trades:       len(res.Trades),
		Refused:      res.Refused,
	}
	for _, p := range res.Final.Holdings {
		run.Holdings = append(run.Holdings, JsonPosition{
			BuyPrice: p.BuyPrice.String(),
			Amount:   p.Amount.String(),
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.report.Runs = append(r.report.Runs, run)
	r.log.Debug("run submitted to report",
		zap.String("run_id", run.ID),
		zap.String("run", run.Name))

	return run.ID
}

func (r *JsonReportBuilder) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write backtest report: %w", err)
	}

	return nil
}

func (r *JsonReportBuilder) WriteToFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close report file: %w", cerr))
		}
	}()

	return r.Write(f)
}
