package pipeline

import (
	"fmt"
	"log/slog"

	"landscape-quote/internal/calc"
	"landscape-quote/internal/catalog"
	"landscape-quote/internal/check"
	"landscape-quote/internal/classify"
	"landscape-quote/internal/detect"
	"landscape-quote/internal/mapping"
	"landscape-quote/internal/pricing"
)

// Mode names a factory preset.
type Mode string

const (
	// ModeProduction wires real stages, the HTTP pricing oracle, and the
	// HTTP classifier.
	ModeProduction Mode = "production"

	// ModeMock wires deterministic implementations with zero network
	// calls: cost-table pricing and the static splitter.
	ModeMock Mode = "mock"

	// ModeHybrid starts from production wiring and applies the caller's
	// per-stage overrides.
	ModeHybrid Mode = "hybrid"
)

// Overrides lets hybrid configurations substitute individual stages.
// A nil field keeps the preset's implementation.
type Overrides struct {
	Detector   Detector
	Checker    Checker
	Mapper     Mapper
	Calculator Calculator
	Splitter   classify.Splitter
}

// FactoryConfig is the explicit configuration for pipeline assembly. The
// core reads no environment; binaries translate env/flags into this
// struct.
type FactoryConfig struct {
	Mode Mode

	// Catalog defaults to the built-in catalog when nil.
	Catalog *catalog.Catalog

	// CostTable backs the mock calculator and the oracle fallback.
	// Defaults to the built-in rates when nil.
	CostTable *pricing.CostTable

	// Oracle settings, production mode only.
	OracleBaseURL string
	OracleTenant  string

	// Classifier endpoint, production mode only. Empty disables the
	// upstream splitter.
	ClassifierURL string

	// OracleFallback prices from the cost table when no oracle endpoint
	// is configured, instead of failing assembly.
	OracleFallback bool

	// FullPipeline disables early return so every stage runs even after
	// an incomplete verdict, purely for diagnostic output.
	FullPipeline bool

	CheckerConfig *check.Config
	MapperConfig  *mapping.Config

	Overrides Overrides

	Logger *slog.Logger
}

// Factory assembles pipelines from interchangeable stage implementations.
type Factory struct {
	cfg FactoryConfig
}

// NewFactory validates the configuration.
func NewFactory(cfg FactoryConfig) (*Factory, error) {
	switch cfg.Mode {
	case ModeProduction, ModeMock, ModeHybrid:
	case "":
		cfg.Mode = ModeMock
	default:
		return nil, fmt.Errorf("unknown pipeline mode: %q", cfg.Mode)
	}
	if cfg.Mode == ModeProduction && cfg.OracleBaseURL == "" && !cfg.OracleFallback {
		return nil, fmt.Errorf("production mode requires an oracle base URL (or OracleFallback)")
	}
	return &Factory{cfg: cfg}, nil
}

// Build assembles a pipeline for the configured mode.
func (f *Factory) Build() *Pipeline {
	cfg := f.cfg

	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	table := cfg.CostTable
	if table == nil {
		table = pricing.DefaultCostTable()
	}
	checkerCfg := check.DefaultConfig()
	if cfg.CheckerConfig != nil {
		checkerCfg = *cfg.CheckerConfig
	}
	mapperCfg := mapping.DefaultConfig()
	if cfg.MapperConfig != nil {
		mapperCfg = *cfg.MapperConfig
	}

	var detector Detector = detect.New(cat)
	var checker Checker = check.New(cat, checkerCfg)
	var mapper Mapper = mapping.New(cat, mapperCfg)
	var calculator Calculator
	var splitter classify.Splitter

	switch cfg.Mode {
	case ModeMock:
		calculator = calc.New(cat, table)
		splitter = classify.NewStaticSplitter(cat)
	default: // production and hybrid base wiring
		if cfg.OracleBaseURL != "" {
			oracle := pricing.NewHTTPOracle(pricing.DefaultHTTPOracleConfig(cfg.OracleBaseURL, cfg.OracleTenant))
			calculator = calc.NewWithOracle(cat, table, oracle)
		} else {
			calculator = calc.New(cat, table)
		}
		if cfg.ClassifierURL != "" {
			splitter = classify.NewHTTPSplitter(cfg.ClassifierURL)
		}
	}

	if o := cfg.Overrides; cfg.Mode == ModeHybrid {
		if o.Detector != nil {
			detector = o.Detector
		}
		if o.Checker != nil {
			checker = o.Checker
		}
		if o.Mapper != nil {
			mapper = o.Mapper
		}
		if o.Calculator != nil {
			calculator = o.Calculator
		}
		if o.Splitter != nil {
			splitter = o.Splitter
		}
	}

	opts := DefaultOptions()
	opts.EarlyReturn = !cfg.FullPipeline

	p := New(detector, checker, mapper, calculator, opts, cfg.Logger)
	if splitter != nil {
		p.WithSplitter(splitter)
	}
	return p
}
