package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "runtime"
    "syscall"
    "time"

    "github.com/gorilla/mux"

    "storefront-session-api/config"
    "storefront-session-api/handlers"
    "storefront-session-api/middleware"
    "storefront-session-api/services/cart"
    "storefront-session-api/services/checkout"
    "storefront-session-api/services/commerce"
    "storefront-session-api/services/coupon"
    "storefront-session-api/services/notification"
    "storefront-session-api/services/session"
    "storefront-session-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
        w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
        w.Header().Set("Access-Control-Allow-Credentials", "true")

        // Responder imediatamente para OPTIONS
        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }
        next.ServeHTTP(w, r)
    })
}

type responseWriter struct {
    http.ResponseWriter
    status int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.status = code
    rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(wrapper, r)

        // Registrar apenas requisições com duração longa ou erros
        elapsed := time.Since(start)
        if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
            log.Printf(
                "%s %s %s %d %v",
                r.Method,
                r.RequestURI,
                r.RemoteAddr,
                wrapper.status,
                elapsed,
            )
        }
    })
}

func main() {
    // Configurar logging com timestamp preciso
    log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

    numCPU := runtime.NumCPU()
    runtime.GOMAXPROCS(numCPU)
    log.Printf("Server starting with %d CPUs available", numCPU)

    cfg := config.Load()
    log.Printf("Configuration loaded successfully")

    // Escolher o store de sessão: Redis quando configurado, memória caso
    // contrário
    var sessionStore session.Store
    var redisStore *session.RedisStore
    var memoryStore *session.MemoryStore

    if cfg.Redis.URL != "" {
        var err error
        for retries := 0; retries < 5; retries++ {
            redisStore, err = session.NewRedisStore(cfg.Redis.URL, cfg.Session.TTL)
            if err == nil {
                break
            }
            retryDelay := time.Duration(retries+1) * time.Second
            log.Printf("Failed to connect to Redis (attempt %d/5): %v. Retrying in %v...",
                retries+1, err, retryDelay)
            time.Sleep(retryDelay)
        }
        if err != nil {
            log.Fatalf("Failed to connect to Redis after retries: %v", err)
        }
        sessionStore = redisStore
        log.Println("Successfully connected to Redis")
    } else {
        memoryStore = session.NewMemoryStore()
        sessionStore = memoryStore
        log.Printf("Warning: REDIS_URL not set, sessions are kept in memory only")
    }

    // Inicializar serviços
    client := commerce.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, cfg.Upstream.ReadRetries)
    coupons := coupon.NewCatalog()
    validator := checkout.NewValidator(nil)
    wizard := checkout.NewWizard(validator, cfg.Checkout)
    manager := cart.NewManager(client, coupons, cfg.Checkout)
    hub := notification.NewHub()

    // Janitor limpa notificações expiradas e sessões ociosas em memória
    janitor := worker.NewJanitor(hub, memoryStore, time.Minute, cfg.Session.TTL)
    janitor.Start()
    defer janitor.Stop()

    // Inicializar handlers
    authHandler := handlers.NewAuthHandler(client, hub)
    cartHandler := handlers.NewCartHandler(manager, wizard, hub)
    checkoutHandler := handlers.NewCheckoutHandler(manager, wizard, hub)
    catalogHandler := handlers.NewCatalogHandler(client, hub)
    orderHandler := handlers.NewOrderHandler(client, hub)
    notificationHandler := handlers.NewNotificationHandler(hub)

    sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session, sessionStore)

    // Configurar o router com middleware otimizados
    router := mux.NewRouter()
    router.Use(corsMiddleware)
    router.Use(loggingMiddleware)

    api := router.PathPrefix("/api").Subrouter()
    api.Use(sessionMiddleware.Handler)

    // Auth endpoints
    api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
    api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
    api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
    api.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")

    // Cart endpoints
    api.HandleFunc("/cart", cartHandler.GetCart).Methods("GET", "OPTIONS")
    api.HandleFunc("/cart/items", cartHandler.AddItem).Methods("POST", "OPTIONS")
    api.HandleFunc("/cart/items", cartHandler.UpdateQuantity).Methods("PUT", "OPTIONS")
    api.HandleFunc("/cart/items/remove", cartHandler.RemoveItem).Methods("POST", "OPTIONS")
    api.HandleFunc("/cart/clear", cartHandler.ClearCart).Methods("POST", "OPTIONS")
    api.HandleFunc("/cart/coupon", cartHandler.ApplyCoupon).Methods("POST", "OPTIONS")
    api.HandleFunc("/cart/coupon", cartHandler.RemoveCoupon).Methods("DELETE", "OPTIONS")

    // Checkout wizard endpoints
    api.HandleFunc("/checkout", checkoutHandler.GetState).Methods("GET", "OPTIONS")
    api.HandleFunc("/checkout/next", checkoutHandler.Next).Methods("POST", "OPTIONS")
    api.HandleFunc("/checkout/back", checkoutHandler.Back).Methods("POST", "OPTIONS")
    api.HandleFunc("/checkout/confirm", checkoutHandler.Confirm).Methods("POST", "OPTIONS")

    // Catalog endpoints
    api.HandleFunc("/products", catalogHandler.ListProducts).Methods("GET", "OPTIONS")
    api.HandleFunc("/products/{id}", catalogHandler.GetProduct).Methods("GET", "OPTIONS")
    api.HandleFunc("/categories", catalogHandler.ListCategories).Methods("GET", "OPTIONS")

    // Order endpoints
    api.HandleFunc("/orders", orderHandler.ListOrders).Methods("GET", "OPTIONS")
    api.HandleFunc("/orders/{id}", orderHandler.GetOrder).Methods("GET", "OPTIONS")

    // Notification endpoints
    api.HandleFunc("/notifications", notificationHandler.ListActive).Methods("GET", "OPTIONS")
    api.HandleFunc("/notifications/{id}", notificationHandler.Dismiss).Methods("DELETE", "OPTIONS")

    // Registrar hora de início para cálculo de uptime
    startTime := time.Now()

    // Endpoint de health check (fora do middleware de sessão)
    router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()

        health := struct {
            Status    string `json:"status"`
            Time      string `json:"time"`
            Upstream  string `json:"upstream"`
            Sessions  string `json:"sessions"`
            Uptime    string `json:"uptime"`
            GoVersion string `json:"go_version"`
        }{
            Status:    "ok",
            Time:      time.Now().Format(time.RFC3339),
            Upstream:  "connected",
            Sessions:  "connected",
            Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
            GoVersion: runtime.Version(),
        }

        upstreamCtx, upstreamCancel := context.WithTimeout(ctx, 500*time.Millisecond)
        defer upstreamCancel()

        if err := client.Ping(upstreamCtx); err != nil {
            health.Status = "degraded"
            health.Upstream = "error"
        }

        storeCtx, storeCancel := context.WithTimeout(ctx, 500*time.Millisecond)
        defer storeCancel()

        if err := sessionStore.Healthy(storeCtx); err != nil {
            health.Status = "degraded"
            health.Sessions = "error"
        }

        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(health)
    }).Methods("GET")

    // Configurar servidor HTTP com timeouts otimizados
    srv := &http.Server{
        Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
        Handler:        router,
        ReadTimeout:    15 * time.Second,
        WriteTimeout:   30 * time.Second,
        IdleTimeout:    120 * time.Second,
        MaxHeaderBytes: 1 << 20,
    }

    // Iniciar servidor em goroutine separada
    go func() {
        log.Printf("Server starting on port %s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("Server error: %v", err)
        }
    }()

    // Configurar canal para capturar sinais de encerramento
    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

    <-stop
    log.Println("Shutdown signal received, gracefully shutting down...")

    shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer shutdownCancel()

    log.Println("Shutting down HTTP server...")
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Printf("Server forced to shutdown: %v", err)
    }

    log.Println("Stopping janitor...")
    janitor.Stop()

    if redisStore != nil {
        log.Println("Closing Redis connections...")
        redisStore.Close()
    }

    log.Println("Server exited properly")
}
