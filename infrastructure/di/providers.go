package di

import (
	"go.uber.org/zap"

	appservices "contextgraph/application/services"
	domaincfg "contextgraph/domain/config"
	"contextgraph/domain/core/aggregates"
	domainservices "contextgraph/domain/services"
	"contextgraph/infrastructure/config"
	"contextgraph/infrastructure/persistence/memory"
	"contextgraph/infrastructure/security"
	"contextgraph/internal/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideGraph loads the seed graph, or starts empty when no seed is set
func ProvideGraph(cfg *config.Config, logger *zap.Logger) (*aggregates.Graph, error) {
	if cfg.SeedFile == "" {
		return aggregates.NewGraph(), nil
	}

	graph, err := memory.LoadSeedFile(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	logger.Info("seed graph loaded",
		zap.String("path", cfg.SeedFile),
		zap.Int("entities", graph.EntityCount()),
		zap.Int("relationships", graph.RelationshipCount()))
	return graph, nil
}

// ProvideScoringConfig builds scoring constants from environment overrides
func ProvideScoringConfig(cfg *config.Config) *domaincfg.ScoringConfig {
	sc := domaincfg.DefaultScoringConfig()
	sc.ProximityRange = cfg.ProximityRange
	sc.RecencyHalfLife = domaincfg.DaysToHalfLife(cfg.RecencyHalfLifeDays)
	return sc
}

// ProvideTextAnalyzer creates the keyword extractor
func ProvideTextAnalyzer() domainservices.TextAnalyzer {
	return domainservices.NewDefaultTextAnalyzer()
}

// ProvideContextManager creates the domain manager
func ProvideContextManager(
	graph *aggregates.Graph,
	sc *domaincfg.ScoringConfig,
	analyzer domainservices.TextAnalyzer,
	logger *zap.Logger,
) *domainservices.ContextManager {
	return domainservices.NewContextManager(graph, sc, analyzer, logger)
}

// ProvideACLStore creates the ACL persistence backend
func ProvideACLStore(cfg *config.Config, logger *zap.Logger) security.ACLStore {
	return security.NewFileACLStore(cfg.ACLStorePath, logger)
}

// ProvideSecurityProvider creates the access control provider
func ProvideSecurityProvider(store security.ACLStore, logger *zap.Logger) *security.Provider {
	return security.NewProvider(store, logger)
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics(manager *domainservices.ContextManager) *observability.Collector {
	collector := observability.NewCollector("contextgraph")
	collector.RegisterCacheStats("contextgraph", func() (float64, float64) {
		stats := manager.Stats()
		return float64(stats.Hits), float64(stats.Misses)
	})
	return collector
}

// ProvideContextService creates the application facade
func ProvideContextService(
	manager *domainservices.ContextManager,
	securityProvider *security.Provider,
	metrics *observability.Collector,
	logger *zap.Logger,
) *appservices.ContextService {
	return appservices.NewContextService(manager, securityProvider, metrics, logger)
}
