// Package dependency wires core deskpilot services using go.uber.org/dig.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/dig"

	"github.com/deskpilot/deskpilot/internal/agent"
	"github.com/deskpilot/deskpilot/internal/asana"
	"github.com/deskpilot/deskpilot/internal/config"
	"github.com/deskpilot/deskpilot/internal/drive"
	"github.com/deskpilot/deskpilot/internal/gateway"
	"github.com/deskpilot/deskpilot/internal/providers"
	"github.com/deskpilot/deskpilot/internal/schema"
	"github.com/deskpilot/deskpilot/internal/session"
	"github.com/deskpilot/deskpilot/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	gateway  schema.ModelGateway
	registry *tools.Registry
	agent    *agent.Agent
	server   *gateway.Server
}

func (c *Container) ModelGateway() schema.ModelGateway { return c.gateway }
func (c *Container) Registry() *tools.Registry         { return c.registry }
func (c *Container) Agent() *agent.Agent               { return c.agent }
func (c *Container) Server() *gateway.Server           { return c.server }

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d, err := build(cfg)
	if err != nil {
		return nil, err
	}

	var result *Container
	err = d.Invoke(func(
		gw schema.ModelGateway,
		reg *tools.Registry,
		a *agent.Agent,
		srv *gateway.Server,
	) {
		result = &Container{gateway: gw, registry: reg, agent: a, server: srv}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}
	return result, nil
}

// NewRegistry resolves only the tool registry, which needs no model
// credentials.
func NewRegistry(cfg *config.Config) (*tools.Registry, error) {
	d, err := build(cfg)
	if err != nil {
		return nil, err
	}
	var reg *tools.Registry
	if err := d.Invoke(func(r *tools.Registry) { reg = r }); err != nil {
		return nil, dig.RootCause(err)
	}
	return reg, nil
}

func build(cfg *config.Config) (*dig.Container, error) {
	d := dig.New()
	for _, ctor := range []any{
		func() *config.Config { return cfg },
		newModelGateway,
		newAsanaClient,
		newDriveStore,
		newToolRegistry,
		newPromptBuilder,
		session.NewManager,
		newAgent,
		newServer,
	} {
		if err := d.Provide(ctor); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func newModelGateway(cfg *config.Config) (schema.ModelGateway, error) {
	model := cfg.Agents.Defaults.Model
	result := cfg.MatchProvider(model)
	if result.Provider == nil {
		return nil, fmt.Errorf("no API key configured for model %q: set OPENAI_API_KEY or edit %s", model, config.ConfigPath())
	}

	return providers.New(providers.Params{
		APIKey:       result.Provider.APIKey,
		APIBase:      cfg.GetAPIBase(model),
		ExtraHeaders: result.Provider.ExtraHeaders,
		DefaultModel: model,
		ProviderName: result.Name,
	}), nil
}

func newAsanaClient(cfg *config.Config) *asana.Client {
	a := cfg.Tools.Asana
	return asana.NewClient(a.AccessToken, a.ProjectID, asana.WithBaseURL(a.BaseURL))
}

// newDriveStore falls back to a store that reports the problem through the
// tools when no usable Google credentials are found.
func newDriveStore(cfg *config.Config) drive.Store {
	ctx := context.Background()
	d := cfg.Tools.Drive

	opt, err := drive.CredentialOption(ctx, d.Credentials())
	if err != nil {
		slog.Warn("Google Drive disabled", "err", err)
		return drive.Unavailable(err)
	}
	client, err := drive.NewClient(ctx, d.MaxDownloadBytes, opt)
	if err != nil {
		slog.Warn("Google Drive disabled", "err", err)
		return drive.Unavailable(err)
	}
	return client
}

func newToolRegistry(cfg *config.Config, tasks *asana.Client, store drive.Store) (*tools.Registry, error) {
	d := cfg.Tools.Drive
	return tools.NewRegistryBuilder().
		WithTool(tools.NewCreateAsanaTaskTool(tasks)).
		WithTool(tools.NewDocumentLoaderTool(store, d.MaxChars)).
		WithTool(tools.NewDriveListerTool(store, d.MaxResults)).
		WithAlias("google_doc_tool", tools.ToolDocumentLoader).
		Build()
}

func newPromptBuilder(cfg *config.Config) *agent.PromptBuilder {
	return agent.NewPromptBuilder(cfg.Agents.Defaults.Instructions)
}

func newAgent(
	gw schema.ModelGateway,
	reg *tools.Registry,
	cfg *config.Config,
	prompts *agent.PromptBuilder,
	sessions *session.Manager,
) *agent.Agent {
	return agent.New(gw, reg, cfg.Agents.Defaults.Settings(), prompts, sessions)
}

func newServer(a *agent.Agent, cfg *config.Config) *gateway.Server {
	return gateway.NewServer(a, cfg.Gateway)
}
