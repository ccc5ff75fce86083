// Copyright 2023 foodcourt
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"foodcourt/internal/cart"
	"foodcourt/internal/conf"
	"foodcourt/internal/constants"
	"foodcourt/internal/history"
	"foodcourt/internal/notify"
	"foodcourt/internal/payment"
	"foodcourt/internal/redisdb"
	"foodcourt/pkg/apiserver"
	publicapi "foodcourt/pkg/v2/api"

	"github.com/golang/glog"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	cmd := newFoodcourtCommand()
	flag.Parse()
	defer glog.Flush()

	if err := cmd.Execute(); err != nil {
		glog.Fatalln(err)
	}
}

func newFoodcourtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "foodcourt",
		Short: "REST API for the foodcourt vendor dashboard and public ordering site",
		Long:  `The foodcourt service fronts the core payments API: it serves the vendor dashboard, the public table ordering site and the payment status resolution flow`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = Run()
		},
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	return cmd
}

func Run() error {
	conf.Init()

	if !conf.GetIsSandbox() {
		err := redisdb.Init()
		if err != nil {
			glog.Fatalf("redisdb init err:%s", err.Error())
		}
	}

	var historyModule *history.HistoryModule
	if !conf.GetIsSandbox() {
		var err error
		historyModule, err = history.NewHistoryModule()
		if err != nil {
			log.Printf("Warning: Failed to initialize history module: %v", err)
			// Continue without history module, but log the error
		}
	}

	dataSender, err := notify.NewDataSender()
	if err != nil {
		log.Printf("Warning: Failed to initialize event sender: %v", err)
	}

	// Interface fields stay nil unless the concrete module came up, a typed
	// nil pointer would slip past the nil checks downstream.
	var sessionStore payment.StateStore
	if redisdb.Initialized() {
		sessionStore = redisdb.NewSessionStore()
	}
	var resolvedEvents payment.EventSenderInterface
	var orderEvents cart.EventSenderInterface
	if dataSender != nil {
		resolvedEvents = dataSender
		orderEvents = dataSender
	}
	var resolutionLog payment.HistoryWriter
	var orderLog cart.OrderRecorder
	if historyModule != nil {
		resolutionLog = historyModule
		orderLog = historyModule
	}

	paymentManager := payment.NewManager(payment.NewVerifyClient(), sessionStore, resolvedEvents, resolutionLog)
	cartManager := cart.NewManager(orderEvents, orderLog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paymentManager.StartCleanup(ctx, 10*time.Minute, time.Hour)

	watcher := notify.NewWatcher(notify.NewFCMClient(), notify.NewDeviceRegistry())
	if err := watcher.Start(); err != nil {
		log.Printf("Warning: push watcher not started: %v", err)
	}

	s, err := apiserver.New(historyModule)
	if err != nil {
		return err
	}
	if err = s.PrepareRun(); err != nil {
		return err
	}

	go func() {
		glog.Infof("Start listening on %s", s.Server.Addr)
		if err := s.Run(); err != nil {
			glog.Errorf("dashboard api server stopped: %v", err)
		}
	}()

	publicPort := strings.TrimPrefix(constants.PublicServerListenAddress, ":")
	publicServer := publicapi.NewServer(publicPort, paymentManager, cartManager)

	go func() {
		if err := publicServer.Start(); err != nil {
			log.Printf("Public server stopped: %v", err)
		}
	}()

	log.Printf("Available public endpoints:")
	log.Println("  GET    /api/v2/vendors/{vendor}/menu      - Get the public menu of a vendor")
	log.Println("  POST   /api/v2/carts                      - Open a cart")
	log.Println("  PUT    /api/v2/carts/{id}/items           - Add or update a cart line")
	log.Println("  POST   /api/v2/carts/{id}/checkout        - Submit the order")
	log.Println("  GET    /api/v2/orders/{id}                - Get the order status")
	log.Println("  POST   /api/v2/payment/sessions           - Begin payment status resolution")
	log.Println("  GET    /api/v2/payment/sessions/{id}      - Get the payment status view")
	log.Println("  POST   /api/v2/payment/sessions/{id}/retry - Retry a failed status check")
	log.Println("  GET    /api/v2/health                     - Health check")

	// Setup graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	log.Println("Shutting down gracefully...")

	shutdownTimeout := 30 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	shutdownComplete := make(chan struct{})

	go func() {
		defer close(shutdownComplete)

		log.Println("Stopping push watcher...")
		watcher.Stop()

		if dataSender != nil {
			log.Println("Stopping event sender...")
			dataSender.Close()
		}

		if historyModule != nil {
			log.Println("Stopping history module...")
			if err := historyModule.Close(); err != nil {
				log.Printf("Error stopping history module: %v", err)
			}
		}
	}()

	select {
	case <-shutdownCtx.Done():
		log.Printf("Shutdown timeout (%v) exceeded, forcing exit", shutdownTimeout)
		os.Exit(1)
	case <-shutdownComplete:
		log.Println("All modules stopped. Goodbye!")
	}

	return nil
}
