// Package di wires application dependencies.
package di

import (
	"go.uber.org/zap"

	appservices "contextgraph/application/services"
	domaincfg "contextgraph/domain/config"
	"contextgraph/domain/core/aggregates"
	domainservices "contextgraph/domain/services"
	"contextgraph/infrastructure/security"
	"contextgraph/internal/observability"
)

// Container holds all application dependencies
type Container struct {
	Logger        *zap.Logger
	Graph         *aggregates.Graph
	ScoringConfig *domaincfg.ScoringConfig
	Manager       *domainservices.ContextManager
	Security      *security.Provider
	Metrics       *observability.Collector
	Service       *appservices.ContextService
}
