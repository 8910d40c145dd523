package main

import (
	"context"
	"fmt"
	"log"

	"finverse-be/internal/dto"
	"finverse-be/internal/entity"
	"finverse-be/internal/pkg/logger"
	"finverse-be/internal/repository/memory"
	"finverse-be/internal/service"
	"finverse-be/pkg/assistant"
	"finverse-be/pkg/catalog"
	"finverse-be/pkg/chat"
	"finverse-be/pkg/comparison"
	"finverse-be/pkg/events"

	"github.com/fatih/color"
)

// Offline walkthrough of the chat routing and comparison flow against canned
// capability responses. Useful for eyeballing routing decisions and matrix
// output without a running upstream.

type cannedAssistant struct{}

func (cannedAssistant) Chat(_ context.Context, query, conversationID string) (*assistant.Reply, error) {
	return &assistant.Reply{
		Kind:           assistant.ReplyAnswer,
		Body:           fmt.Sprintf("General guidance for %q.", query),
		ConversationID: "conv-1",
		Sources: []assistant.Source{
			{ProductId: "cc-1", ProductName: "Platinum Credit Card"},
		},
	}, nil
}

func (cannedAssistant) ProductChat(_ context.Context, productID, query, conversationID string) (*assistant.Reply, error) {
	return &assistant.Reply{
		Kind:           assistant.ReplyAnswer,
		Body:           fmt.Sprintf("Details about product %s.", productID),
		ConversationID: "conv-1",
	}, nil
}

func (cannedAssistant) Compare(_ context.Context, productIDs []string, conversationID string) (*assistant.Reply, error) {
	return &assistant.Reply{
		Kind:           assistant.ReplySummary,
		Body:           fmt.Sprintf("Comparison of %d products: both are solid picks.", len(productIDs)),
		ConversationID: "conv-1",
	}, nil
}

type cannedCatalog struct{}

func (cannedCatalog) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	return &entity.Product{
		Id:            id,
		Name:          "Product " + id,
		CategoryId:    "credit-cards",
		InstitutionId: "inst-1",
		Details: map[string]entity.Value{
			"annualFee":    entity.NumberValue(7500),
			"interestRate": entity.NumberValue(24.5),
		},
	}, nil
}

func (cannedCatalog) GetOrganization(_ context.Context, id string) (*catalog.Organization, error) {
	return &catalog.Organization{Id: id, Name: "Ceylon National Bank"}, nil
}

func main() {
	ctx := context.Background()
	sysLogger := logger.NewIsolatedLogger("logs/simulation.log")
	bus := events.NewBus()
	defer bus.Close()

	set := comparison.NewStore(comparison.DefaultMaxProducts, bus)
	aggregator := comparison.NewAggregator(cannedCatalog{}, sysLogger)
	router := chat.NewRouter(cannedAssistant{}, set, sysLogger)

	chatService := service.NewChatService(router, memory.NewSessionRepository(), bus, sysLogger)
	comparisonService := service.NewComparisonService(set, aggregator, cannedAssistant{}, bus, sysLogger)

	color.Cyan("=== 1. General chat (empty comparison set) ===")
	sendAndPrint(ctx, chatService, &dto.SendChatRequest{SurfaceId: "sim", Chat: "What is APR?"})

	color.Cyan("=== 2. Product detail context ===")
	sendAndPrint(ctx, chatService, &dto.SendChatRequest{SurfaceId: "sim", Chat: "Is this card worth it?", ProductId: "cc-1"})

	color.Cyan("=== 3. Fill the comparison set ===")
	for _, id := range []string{"cc-1", "cc-2"} {
		res, err := comparisonService.AddProduct(ctx, &dto.AddProductRequest{Id: id, Name: "Card " + id})
		if err != nil {
			log.Fatalf("add product: %v", err)
		}
		color.Green("added=%v count=%d", res.Added, res.Count)
	}

	color.Cyan("=== 4. Chat now routes to compare ===")
	sendAndPrint(ctx, chatService, &dto.SendChatRequest{SurfaceId: "sim", Chat: "Which one should I pick?"})

	color.Cyan("=== 5. Comparison matrix ===")
	matrix, err := comparisonService.GetMatrix(ctx)
	if err != nil {
		log.Fatalf("matrix: %v", err)
	}
	for _, row := range matrix.Rows {
		cells := make([]string, 0, len(row.Values))
		for _, cell := range row.Values {
			cells = append(cells, cell.Value)
		}
		fmt.Printf("%-20s %v\n", row.Label, cells)
	}

	color.Cyan("=== 6. Regenerated summary ===")
	summary, err := comparisonService.RegenerateSummary(ctx, &dto.SummaryRequest{})
	if err != nil {
		log.Fatalf("summary: %v", err)
	}
	color.Yellow(summary.Summary)
}

func sendAndPrint(ctx context.Context, svc service.IChatService, req *dto.SendChatRequest) {
	res, err := svc.SendChat(ctx, req)
	if err != nil {
		log.Fatalf("send chat: %v", err)
	}
	color.Green("[%s] %s", res.Target, res.Reply.Chat)
}
