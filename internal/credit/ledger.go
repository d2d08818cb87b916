// Package credit реализует кредитный учет платных операций: проверку баланса,
// выполнение оплачиваемой работы и фиксацию списания.
//
// Check и резервирование схлопнуты в один атомарный условный декремент
// баланса перед выполнением работы, с компенсирующим возвратом при неудаче.
// Счетчик использованных кредитов растет отдельным шагом Commit только после
// успешной работы, поэтому он монотонен и при неудачах. Баланс не может уйти
// в минус при конкурентных списаниях, а внешний вызов выполняется вне
// каких-либо блокировок.
package credit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
)

// Store описывает атомарные операции над балансом принципала в хранилище.
//
// DebitCredits уменьшает credits на cost одной командой при условии
// credits >= cost; второй результат false — условие не выполнено, запись
// не изменена.
// CommitCreditsUsed увеличивает total_credits_used на cost; вызывается
// только после успешной работы.
// RefundCredits обращает списание, возвращая credits на баланс.
// GrantCredits увеличивает credits на amount.
// GrantMemberCredits увеличивает credits участника организации orgUID;
// второй результат false — принципал не участник этой организации.
type Store interface {
	DebitCredits(ctx context.Context, principalUID string, cost int) (int, bool, error)
	CommitCreditsUsed(ctx context.Context, principalUID string, cost int) error
	RefundCredits(ctx context.Context, principalUID string, cost int) (int, error)
	GrantCredits(ctx context.Context, principalUID string, amount int) (int, error)
	GrantMemberCredits(ctx context.Context, orgUID, principalUID string, amount int) (int, bool, error)
}

// WorkFunc оплачиваемая единица работы, обычно вызов внешней генерации текста.
type WorkFunc func(ctx context.Context) (string, error)

// SpendResult результат успешного списания: произведенный текст и баланс
// после фиксации.
type SpendResult struct {
	Result           string
	RemainingCredits int
}

// Ledger выполняет цикл Check-Execute-Commit над балансом принципала.
type Ledger struct {
	store       Store
	log         *slog.Logger
	workTimeout time.Duration
}

// NewLedger создает новый экземпляр Ledger. workTimeout ограничивает
// длительность оплачиваемой работы.
func NewLedger(store Store, log *slog.Logger, workTimeout time.Duration) *Ledger {
	return &Ledger{
		store:       store,
		log:         log,
		workTimeout: workTimeout,
	}
}

// Spend проводит одно списание: атомарно резервирует стоимость операции,
// выполняет work и возвращает результат вместе с остатком баланса.
//
// При нехватке баланса возвращает ErrInsufficientCredits, запись не меняется.
// При ошибке или таймауте work списание компенсируется возвратом, наружу
// уходит ErrGenerationFailed либо ErrGenerationTimeout — повторный запрос
// клиента тарифицируется заново, дедупликации нет.
//
// Отмена вызывающего контекста не прерывает work: списание уже применено,
// недополученный ответ допустим, недосписанный кредит — нет.
func (l *Ledger) Spend(ctx context.Context, principalUID string, action Action, work WorkFunc) (*SpendResult, error) {
	const op = "credit.Spend"
	if action.Cost <= 0 {
		return nil, fmt.Errorf("%s: %w: non-positive cost", op, ErrUnknownAction)
	}

	remaining, ok, err := l.store.DebitCredits(ctx, principalUID, action.Cost)
	if err != nil {
		return nil, fmt.Errorf("%s: debit: %w", op, err)
	}
	if !ok {
		l.log.Info("spend rejected",
			slog.String("principal_uid", principalUID),
			slog.String("action", action.Name))
		return nil, fmt.Errorf("%s: %w", op, ErrInsufficientCredits)
	}

	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.workTimeout)
	defer cancel()

	result, workErr := work(workCtx)
	if workErr != nil {
		if _, refundErr := l.store.RefundCredits(context.WithoutCancel(ctx), principalUID, action.Cost); refundErr != nil {
			l.log.Error("refund after failed work did not apply",
				slog.String("principal_uid", principalUID),
				slog.String("action", action.Name),
				slog.Int("cost", action.Cost),
				sl.Err(refundErr))
			return nil, fmt.Errorf("%s: %w", op, ErrRefundFailed)
		}
		if errors.Is(workErr, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", op, ErrGenerationTimeout)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrGenerationFailed, workErr)
	}

	if err := l.store.CommitCreditsUsed(context.WithoutCancel(ctx), principalUID, action.Cost); err != nil {
		l.log.Error("commit after successful work did not apply",
			slog.String("principal_uid", principalUID),
			slog.String("action", action.Name),
			slog.Int("cost", action.Cost),
			sl.Err(err))
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	l.log.Info("spend committed",
		slog.String("principal_uid", principalUID),
		slog.String("action", action.Name),
		slog.Int("cost", action.Cost),
		slog.Int("remaining", remaining))

	return &SpendResult{
		Result:           result,
		RemainingCredits: remaining,
	}, nil
}

// Grant административно начисляет кредиты принципалу тем же атомарным
// апдейтом, без слепой перезаписи записи. Возвращает баланс после начисления.
func (l *Ledger) Grant(ctx context.Context, principalUID string, amount int) (int, error) {
	const op = "credit.Grant"
	if amount <= 0 {
		return 0, fmt.Errorf("%s: amount must be positive", op)
	}
	balance, err := l.store.GrantCredits(ctx, principalUID, amount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	l.log.Info("credits granted",
		slog.String("principal_uid", principalUID),
		slog.Int("amount", amount),
		slog.Int("balance", balance))
	return balance, nil
}

// GrantToMember начисляет кредиты участнику организации orgUID. Если
// принципал не является участником этой организации, возвращает
// ErrNotOrgMember, запись не меняется.
func (l *Ledger) GrantToMember(ctx context.Context, orgUID, principalUID string, amount int) (int, error) {
	const op = "credit.GrantToMember"
	if amount <= 0 {
		return 0, fmt.Errorf("%s: amount must be positive", op)
	}
	balance, ok, err := l.store.GrantMemberCredits(ctx, orgUID, principalUID, amount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, ErrNotOrgMember)
	}
	l.log.Info("credits granted to member",
		slog.String("org_uid", orgUID),
		slog.String("principal_uid", principalUID),
		slog.Int("amount", amount),
		slog.Int("balance", balance))
	return balance, nil
}
