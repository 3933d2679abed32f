package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	gommon "github.com/labstack/gommon/log"

	"fable/pkg/enhance"
	"fable/pkg/inference"
	"fable/pkg/queue/sdwebui"
	"fable/pkg/server"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	inf := buildInferencer()

	q := sdwebui.New(os.Getenv("SD_WEBUI_URL"))
	q.Start()
	defer q.Stop()

	pipeline := enhance.NewPipeline(inf, q)

	srv := server.NewServer(ctx, pipeline)
	srv.Echo.Logger.SetLevel(gommon.INFO)

	addr := ":8080"
	if envAddr := os.Getenv("PORT"); envAddr != "" {
		addr = ":" + envAddr
	}

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatal(err)
		}
		done()
		close(finishedShutDown)
	}()

	log.Info("listening", "addr", addr)
	if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "error", err)
	}
	<-finishedShutDown
}

// buildInferencer picks the text provider from the environment. Grok and
// Gemini keys take precedence over OpenAI; with no key at all the OpenAI
// client points at a local OpenAI-compatible endpoint.
func buildInferencer() inference.Inferencer {
	if key := os.Getenv("GROK_API_KEY"); key != "" {
		return inference.NewGrokInferencer(key, os.Getenv("GROK_MODEL"))
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gem, err := inference.NewGeminiInferencer(key, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatal("gemini client failed", "error", err)
		}
		return gem
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	openAI := inference.NewOpenAIInferencer(apiKey, model)
	if apiKey == "" {
		openAI.ChangeBaseURL("http://localhost:1234/v1")
		openAI.SetModel("")
	}
	return openAI
}
