package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/pkg/errors"

	"github.com/Philipp01105/firelogger/handler"
	"github.com/Philipp01105/firelogger/logger"
)

// demoLog writes into the session of the request context
var demoLog = slog.New(handler.NewSlogHandler(nil, "slog"))

// node links to itself to show how cycles are cut
type node struct {
	Name     string
	Children []*node
	Parent   *node
}

type account struct {
	ID      int
	Email   string
	Created time.Time
	Tags    map[string]string
	secret  string
}

// PickleValue hides the secret from the client
func (a account) PickleValue() any {
	return map[string]any{"id": a.ID, "email": a.Email, "created": a.Created, "tags": a.Tags}
}

// notFoundError carries no stack; wrapping it records one
type notFoundError struct{}

func (notFoundError) Error() string { return "record not found" }

func newDemoMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", demoIndex)
	mux.HandleFunc("/warn", demoWarn)
	mux.HandleFunc("/error", demoError)
	mux.HandleFunc("/panic", demoPanic)
	mux.HandleFunc("/slog", demoSlog)
	return mux
}

func demoIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	root := &node{Name: "root"}
	child := &node{Name: "child", Parent: root}
	root.Children = append(root.Children, child)

	logger.Log(ctx, "hello from %s", r.URL.Path)
	logger.Info(ctx, "request headers", r.Header)
	logger.Log(ctx, "warning", "a cyclic tree", root)
	logger.Log(ctx, "info", "%d goroutines, %s", runtime.NumGoroutine(), runtime.Version())

	acct := account{ID: 7, Email: "ada@example.com", Created: time.Now(), Tags: map[string]string{"plan": "pro"}, secret: "hunter2"}
	s := logger.FromContext(ctx)
	s.Logger("db").Info("loaded account", acct)
	s.NewLogger("cache", "background-color: #ffe680").Log("miss", map[string]int{"hits": 12, "misses": 3})

	_, _ = io.WriteString(w, "FireLogger demo: open the FireLogger panel and reload.\n")
}

func demoWarn(w http.ResponseWriter, r *http.Request) {
	_, file, line, _ := runtime.Caller(0)
	logger.FromContext(r.Context()).OnError(logger.SeverityUserDeprecated, "demoWarn is deprecated", file, line)
	_, _ = io.WriteString(w, "warning recorded\n")
}

func findAccount(id int) error {
	return errors.Wrapf(notFoundError{}, "account %d", id)
}

func demoError(w http.ResponseWriter, r *http.Request) {
	err := findAccount(42)
	logger.Log(r.Context(), err)
	logger.FromContext(r.Context()).ErrorLogger().Exception(errors.WithStack(fmt.Errorf("plain error: %w", err)))
	http.Error(w, err.Error(), http.StatusNotFound)
}

func demoPanic(http.ResponseWriter, *http.Request) {
	var tree *node
	_ = tree.Name
}

func demoSlog(w http.ResponseWriter, r *http.Request) {
	demoLog.InfoContext(r.Context(), "through slog", "path", r.URL.Path, slog.Group("client", "agent", r.UserAgent()))
	demoLog.With("component", "demo").WarnContext(r.Context(), "slog warning", "elapsed", 15*time.Millisecond)
	_, _ = io.WriteString(w, "slog records written\n")
}
