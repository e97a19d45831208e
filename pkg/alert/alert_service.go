package alert

import (
	"context"
	"fmt"

	"github.com/yosbany/ordenes-sub000/entities"
	"github.com/yosbany/ordenes-sub000/internal/utils/mailing"
)

type (
	// AlertService notifies the recipe owner when a recompute moves the unit
	// cost past the recipe's configured threshold.
	AlertService interface {
		NotifyCostChange(ctx context.Context, recipe entities.Recipe, entry entities.CostHistoryEntry) error
	}

	alertService struct{}
)

func NewAlertService() AlertService {
	return &alertService{}
}

func (s *alertService) NotifyCostChange(_ context.Context, recipe entities.Recipe, entry entities.CostHistoryEntry) error {
	subject := fmt.Sprintf("Cost alert: %s moved %.2f%%", recipe.Name, entry.ChangePercentage)
	body := fmt.Sprintf(
		"<p>The unit cost of <b>%s</b> changed by %.2f%% on %s.</p>"+
			"<p>New unit cost: %s<br>New total cost: %s<br>Suggested price: %s</p>"+
			"<p>Alert threshold for this recipe: %.2f%%.</p>",
		recipe.Name,
		entry.ChangePercentage,
		entry.Date.Format("2006-01-02 15:04"),
		entry.UnitCost.String(),
		entry.TotalCost.String(),
		recipe.SuggestedPrice.String(),
		recipe.CostThreshold,
	)

	return mailing.SendMail(recipe.AlertEmail, subject, body)
}
