/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "log"
    "os"
    "strconv"
    "time"

    "github.com/joho/godotenv"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string

    APIBaseURL  string
    APIToken    string
    APIUsername string
    APIPassword string

    HTTPTimeout time.Duration
    PageSize    int

    WorkersBackfill int
    SyncCron        string
    SyncOnStart     bool
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func boolenv(key string, def bool) bool {
    v := os.Getenv(key)
    if v == "" { return def }
    b, err := strconv.ParseBool(v)
    if err != nil { return def }
    return b
}

func Load() Config {
    _ = godotenv.Load()

    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "Asia/Kolkata"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        APIBaseURL:  getenv("SPRINTSYNC_BASE_URL", "http://localhost:8081"),
        APIToken:    getenv("SPRINTSYNC_TOKEN", ""),
        APIUsername: getenv("SPRINTSYNC_USERNAME", ""),
        APIPassword: getenv("SPRINTSYNC_PASSWORD", ""),

        HTTPTimeout: dur("HTTP_TIMEOUT", 15*time.Second),
        PageSize:    atoi("PAGE_SIZE", 50),

        WorkersBackfill: atoi("WORKERS_BACKFILL", 6),
        SyncCron:        getenv("SYNC_CRON", "*/5 * * * *"),
        SyncOnStart:     boolenv("SYNC_ON_START", true),
    }

    // set global timezone if available
    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    } else {
        log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
    }
    return cfg
}
