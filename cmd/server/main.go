package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"inkwell/internal/ai"
	"inkwell/internal/api"
	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/mcp"
	"inkwell/internal/middleware"
	"inkwell/internal/store"
	"inkwell/internal/store/memstore"
	"inkwell/internal/store/sqlstore"
)

func main() {
	if err := run(); err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load(".env")

	cfg, err := config.FromEnv()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	// Initialize store
	var st store.Store
	switch cfg.DBDriver {
	case "memory":
		st = memstore.New()
	default:
		st, err = sqlstore.New(cfg.DBDriver, cfg.DBConn)
		if err != nil {
			return errors.Wrap(err, "initializing database")
		}
	}
	defer st.Close()

	// Construct providers once; credentials are checked on first use.
	gemini := ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	openAI := ai.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	providers := map[string]ai.Provider{
		gemini.Name(): gemini,
		openAI.Name(): openAI,
	}
	facade := ai.NewFacade(cfg.DefaultProvider, providers)

	var chatter ai.Chatter = gemini
	if cfg.DefaultProvider == openAI.Name() {
		chatter = openAI
	}
	chat := ai.NewChatSession(chatter, cfg.ChatPersona)

	sessions := auth.New(cfg.CookieSecret)
	handlers := api.NewHandlers(st, sessions, facade, chat)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/signup", handlers.SignupHandler)
	mux.HandleFunc("/api/login", handlers.LoginHandler)
	mux.HandleFunc("/api/logout", handlers.LogoutHandler)
	mux.HandleFunc("/api/notes", handlers.NotesHandler)
	mux.HandleFunc("/api/ai/summarize", handlers.SummarizeHandler)
	mux.HandleFunc("/api/ai/grammar", handlers.GrammarHandler)
	mux.HandleFunc("/api/ai/paraphrase", handlers.ParaphraseHandler)
	mux.HandleFunc("/api/ai/chat", handlers.ChatHandler)

	// Assistant tool access to the note store
	mux.Handle("/mcp", mcp.NewNotesServer(st).HTTPServer())

	// Apply middleware: Logging -> Auth
	handler := middleware.Logging(middleware.Auth(sessions)(mux))

	logrus.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"driver":   cfg.DBDriver,
		"provider": cfg.DefaultProvider,
	}).Info("server started")

	return http.ListenAndServe(cfg.Addr, handler)
}
