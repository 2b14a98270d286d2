package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	grpcapi "ai-speech-delivery-service/internal/api/grpc"
	"ai-speech-delivery-service/internal/models"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "Server address")
	reqPath := flag.String("request", "", "Path to a request JSON file (sample request when empty)")
	timeout := flag.Duration("timeout", 2*time.Minute, "Call timeout")
	flag.Parse()

	req := sampleRequest()
	if *reqPath != "" {
		data, err := os.ReadFile(*reqPath)
		if err != nil {
			log.Fatalf("failed to read request: %v", err)
		}
		req = &models.AnalysisRequest{}
		if err := json.Unmarshal(data, req); err != nil {
			log.Fatalf("failed to parse request: %v", err)
		}
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	log.Printf("Connected to %s", *addr)

	client := grpcapi.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rep, err := client.AnalyzeRequest(ctx, req)
	if err != nil {
		log.Fatalf("analyze failed: %v", err)
	}

	log.Printf("Received report: analysisId=%s score=%d mood=%q critiques=%d",
		rep.AnalysisID, rep.ConfidenceVerdict.Score, rep.ConfidenceVerdict.Mood, len(rep.Critiques))
	for name, msg := range rep.DispatchErrors {
		log.Printf("Persona %s failed: %s", name, msg)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rep)
}

func sampleRequest() *models.AnalysisRequest {
	return &models.AnalysisRequest{
		Source:     "testclient",
		Transcript: "Hi everyone, um, we are building a smart sock for runners. It basically, you know, tracks cadence and posture, and we sell it for forty dollars with a monthly coaching plan.",
		Signals: models.Signals{
			Pitch:       models.PitchTrack{Frames: []float64{118, 132, 160, 175, 142, 128, 190, 150}},
			Energy:      models.EnergyTrack{Frames: []float64{0.021, 0.034, 0.029, 0.041, 0.018, 0.037}},
			Silences:    []models.Interval{{2.1, 2.7}, {6.4, 7.5}, {11.0, 11.4}},
			DurationSec: 14.5,
		},
	}
}
