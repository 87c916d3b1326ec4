package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/katsu224/asistenteRRHH/pkg/bots"
	"github.com/katsu224/asistenteRRHH/pkg/channels"
	"github.com/katsu224/asistenteRRHH/pkg/chat"
	"github.com/katsu224/asistenteRRHH/pkg/completion"
	"github.com/katsu224/asistenteRRHH/pkg/config"
	"github.com/katsu224/asistenteRRHH/pkg/knowledge"
	"github.com/katsu224/asistenteRRHH/pkg/logger"
	"github.com/katsu224/asistenteRRHH/pkg/metrics"
	"github.com/katsu224/asistenteRRHH/pkg/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roster, err := bots.Load(cfg.BotsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bots: %v\n", err)
		os.Exit(1)
	}
	bot, ok := roster.Get(cfg.BotID)
	if !ok {
		fmt.Fprintf(os.Stderr, "bots: unknown bot id %q\n", cfg.BotID)
		os.Exit(1)
	}

	textProvider, err := buildTextProvider(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "provider: %v\n", err)
		os.Exit(1)
	}
	imageProvider, err := buildImageProvider(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "provider: %v\n", err)
		os.Exit(1)
	}

	client := completion.NewClient(textProvider, imageProvider)
	client.SetTracker(metrics.NewTracker(cfg.WorkspacePath()))

	seed := loadSeedKnowledge(cfg.KnowledgeDir)
	factory := func() *chat.Controller {
		store := knowledge.NewStore()
		for _, item := range seed {
			store.Add(item)
		}
		return chat.NewController(store, client, bot)
	}

	mode := "chat"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "chat":
		err = runChat(ctx, factory())
	case "serve":
		err = runServe(ctx, cfg, factory)
	default:
		fmt.Fprintf(os.Stderr, "usage: asistente [chat|serve]\n")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func buildTextProvider(ctx context.Context, cfg *config.Config) (providers.Provider, error) {
	primary, err := newNamedProvider(ctx, cfg, cfg.Provider)
	if err != nil {
		return nil, err
	}
	if cfg.FallbackProvider == "" || cfg.FallbackProvider == cfg.Provider {
		return primary, nil
	}
	fallback, err := newNamedProvider(ctx, cfg, cfg.FallbackProvider)
	if err != nil {
		return nil, err
	}
	return providers.NewFallbackProvider(primary, fallback), nil
}

func buildImageProvider(ctx context.Context, cfg *config.Config) (providers.ImageProvider, error) {
	p, err := newNamedProvider(ctx, cfg, cfg.ImageProvider)
	if err != nil {
		return nil, err
	}
	ip, ok := p.(providers.ImageProvider)
	if !ok {
		return nil, fmt.Errorf("provider %q cannot generate images", cfg.ImageProvider)
	}
	return ip, nil
}

func newNamedProvider(ctx context.Context, cfg *config.Config, name string) (providers.Provider, error) {
	switch name {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return providers.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.ImageModel)
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return providers.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.APIBase, cfg.OpenAI.Model, cfg.OpenAI.ImageModel), nil
	case "claude":
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return providers.NewClaudeProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// loadSeedKnowledge ingests every readable file in dir. Failures are logged
// and skipped; a bad file must not stop the assistant.
func loadSeedKnowledge(dir string) []knowledge.Item {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.WarnCF("knowledge", "Cannot read knowledge directory", map[string]interface{}{
			"dir":   dir,
			"error": err.Error(),
		})
		return nil
	}

	var items []knowledge.Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		item, err := knowledge.IngestFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.WarnCF("knowledge", "Skipping file", map[string]interface{}{
				"file":  entry.Name(),
				"error": err.Error(),
			})
			continue
		}
		items = append(items, item)
	}
	logger.InfoCF("knowledge", "Seed knowledge loaded", map[string]interface{}{
		"dir":   dir,
		"items": len(items),
	})
	return items
}

func runChat(ctx context.Context, ctrl *chat.Controller) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tú> ",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	bot := ctrl.Bot()
	fmt.Printf("Hola, soy %s, tu asistente de Recursos Humanos.\n", bot.Name)
	fmt.Println("Comandos: /doc <ruta>, /kb, /explicar, /ejemplo, /imagen, /salir")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == "/salir":
			return nil
		case line == "/kb":
			printKnowledge(ctrl)
		case strings.HasPrefix(line, "/doc "):
			addDocument(ctrl, strings.TrimSpace(strings.TrimPrefix(line, "/doc ")))
		case line == "/explicar":
			runAction(ctx, ctrl, chat.ActionExplain)
		case line == "/ejemplo":
			runAction(ctx, ctrl, chat.ActionExample)
		case line == "/imagen":
			runAction(ctx, ctrl, chat.ActionImage)
		default:
			reply, err := ctrl.SubmitQuestion(ctx, line)
			if err != nil {
				fmt.Println(chat.UserMessage(err))
				continue
			}
			fmt.Printf("%s> %s\n", ctrl.Bot().Name, reply.Text)
		}
	}
}

func printKnowledge(ctrl *chat.Controller) {
	items := ctrl.Knowledge().All()
	if len(items) == 0 {
		fmt.Println("La base de conocimiento está vacía. Añade documentos con /doc <ruta>.")
		return
	}
	for i, item := range items {
		fmt.Printf("%2d. [%s] %s\n", i+1, item.Kind, item.Name)
	}
}

func addDocument(ctrl *chat.Controller, path string) {
	item, err := knowledge.IngestFile(path)
	if err != nil {
		fmt.Printf("No se ha podido añadir %s: %v\n", path, err)
		return
	}
	ctrl.Knowledge().Add(item)
	fmt.Printf("Añadido: %s\n", item.Name)
}

func runAction(ctx context.Context, ctrl *chat.Controller, action chat.Action) {
	var last chat.Message
	found := false
	for _, m := range ctrl.History() {
		if m.Role == chat.RoleModel {
			last = m
			found = true
		}
	}
	if !found {
		fmt.Println("Todavía no hay ninguna respuesta sobre la que actuar.")
		return
	}

	reply, err := ctrl.TriggerAction(ctx, action, last.ID)
	if err != nil {
		fmt.Println(chat.UserMessage(err))
		return
	}

	if reply.Image != nil {
		f, err := os.CreateTemp("", "asistente-*.png")
		if err == nil {
			f.Write(reply.Image.Data)
			f.Close()
			fmt.Printf("%s> %s\nImagen guardada en %s\n", ctrl.Bot().Name, reply.Text, f.Name())
			return
		}
	}
	fmt.Printf("%s> %s\n", ctrl.Bot().Name, reply.Text)
}

func runServe(ctx context.Context, cfg *config.Config, factory channels.ControllerFactory) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", channels.NewWebGateway(factory))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: cfg.Listen, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		logger.InfoCF("web", "Websocket gateway listening", map[string]interface{}{
			"addr": cfg.Listen,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if cfg.Telegram.Enabled {
		tg, err := channels.NewTelegramChannel(cfg.Telegram.Token, factory)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		go func() {
			if err := tg.Run(ctx); err != nil {
				logger.ErrorCF("telegram", "Channel stopped", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
