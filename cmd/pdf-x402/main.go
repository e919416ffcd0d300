package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/paidpdf/pdf-x402/config"
	"github.com/paidpdf/pdf-x402/pdf"
	"github.com/paidpdf/pdf-x402/server"
	"github.com/paidpdf/pdf-x402/x402"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	requirement := x402.PaymentRequirement{
		Scheme:  "exact",
		Network: cfg.Network,
		PayTo:   cfg.WalletAddress,
		Asset:   cfg.Asset,
		Amount:  cfg.PriceAtomic,
	}

	catalog := x402.NewCatalog()
	for _, path := range []string{"/pdf/info", "/pdf/extract", "/pdf/merge", "/pdf/compress"} {
		if err := catalog.Register(http.MethodPost, path, x402.ChargePolicy{requirement}); err != nil {
			log.WithError(err).Fatal("failed to build price catalog")
		}
	}

	schemes := x402.NewSchemeRegistry()
	if cfg.FacilitatorURL != "" {
		schemes.Register("exact", cfg.Network, x402.NewFacilitatorClient(cfg.FacilitatorURL))
		log.WithField("facilitator", cfg.FacilitatorURL).Info("payment verification delegated to facilitator")
	} else {
		schemes.Register("exact", cfg.Network, x402.AcceptAllHandler{})
		log.Warn("no facilitator configured, accepting any payment header")
	}

	gate := x402.PaymentGate(x402.GateConfig{
		Catalog: catalog,
		Schemes: schemes,
		Price:   x402.PriceFormatter(cfg.AssetDecimals, cfg.AssetSymbol),
	})

	price, err := x402.FormatPrice(cfg.PriceAtomic, cfg.AssetDecimals, cfg.AssetSymbol)
	if err != nil {
		log.WithError(err).Fatal("configuration error")
	}

	srv := server.New(server.Options{
		Engine: pdf.NewEngine(),
		Gate:   gate,
		Logger: log,
		Payment: server.PaymentInfo{
			Price:   price,
			Network: cfg.Network,
		},
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Port,
			"network": cfg.Network,
			"price":   price,
		}).Info("PDF utilities API listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
