// Package services содержит бизнес-логику платной генерации контента.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Bharat0709/linkedai-backend/internal/credit"
	"github.com/Bharat0709/linkedai-backend/internal/generation"
)

// Имена операций совпадают с видами контента один к одному.
var actionKinds = map[string]generation.Kind{
	"generate-post":            generation.KindPost,
	"generate-comment":         generation.KindComment,
	"generate-template":        generation.KindTemplate,
	"generate-profile-summary": generation.KindProfileSummary,
}

// GenerateService связывает кредитный учет и адаптер генерации: каждая
// генерация оплачивается по стоимости операции, неуспешная — компенсируется.
type GenerateService struct {
	ledger  *credit.Ledger
	adapter *generation.Adapter
	log     *slog.Logger
}

// NewGenerateService создает новый экземпляр GenerateService.
func NewGenerateService(ledger *credit.Ledger, adapter *generation.Adapter, log *slog.Logger) *GenerateService {
	return &GenerateService{
		ledger:  ledger,
		adapter: adapter,
		log:     log,
	}
}

// Generate выполняет платную генерацию от имени принципала.
//
// Имя операции определяет и стоимость, и вид контента. Неизвестная операция
// возвращает credit.ErrUnknownAction до каких-либо списаний. Ошибки генерации
// транслируются из кредитного учета: ErrInsufficientCredits,
// ErrGenerationTimeout, ErrGenerationFailed, ErrRefundFailed.
func (s *GenerateService) Generate(ctx context.Context, principalUID, actionName string,
	content, tone string, wordCount int) (*credit.SpendResult, error) {
	action, err := credit.LookupAction(actionName)
	if err != nil {
		return nil, err
	}
	kind, ok := actionKinds[actionName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", credit.ErrUnknownAction, actionName)
	}
	req := generation.Request{
		Kind:      kind,
		Content:   content,
		Tone:      tone,
		WordCount: wordCount,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.log.Info("generation requested",
		slog.String("principal_uid", principalUID),
		slog.String("action", actionName))

	return s.ledger.Spend(ctx, principalUID, action, func(workCtx context.Context) (string, error) {
		return s.adapter.Generate(workCtx, req)
	})
}
