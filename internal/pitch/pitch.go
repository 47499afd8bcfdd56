// Package pitch renders the outbound commercial message an agent sends
// after the recommendation stage.
package pitch

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bh-assurance/agent-cli/internal/model"
)

// Compose builds the commercial pitch for a customer from their
// profile and the ranked recommendations. Pure apart from the
// generated pitch id, never fails.
func Compose(cp model.CustomerProfile, recs []model.ProductRecommendation) model.CommercialPitch {
	greeting := fmt.Sprintf("Cher(e) %s,", cp.Customer.DisplayName())
	main := mainMessage(cp, recs)
	args := salesArguments(recs)
	cta := callToAction(len(recs))

	sections := []string{greeting, main}
	if len(args) > 0 {
		sections = append(sections, strings.Join(args, "\n\n"))
	}
	sections = append(sections, cta, "Cordialement,\nVotre conseiller BH Assurance")

	channel := selectChannel(cp.RiskProfile)
	return model.CommercialPitch{
		PitchID:             uuid.NewString(),
		CustomerID:          cp.Customer.ID,
		Recommendations:     recs,
		PersonalizedMessage: strings.Join(sections, "\n\n"),
		SalesArguments:      args,
		Channel:             channel,
		Urgency:             urgency(recs),
		FollowUpStrategy:    followUp(channel, len(recs)),
	}
}

func mainMessage(cp model.CustomerProfile, recs []model.ProductRecommendation) string {
	if len(recs) == 0 {
		return "Nous avons analysé votre profil et votre couverture d'assurance actuelle semble complète."
	}

	var b strings.Builder
	profession := cp.Customer.Profession()
	if profession != "" {
		fmt.Fprintf(&b, "En tant que %s, nous", profession)
	} else {
		b.WriteString("Nous")
	}
	b.WriteString(" avons identifié des opportunités d'amélioration de votre couverture d'assurance qui correspondent parfaitement à votre profil professionnel.")

	if len(recs) == 1 {
		fmt.Fprintf(&b, " Nous vous recommandons particulièrement notre produit %s.", recs[0].Product.Product)
	} else {
		fmt.Fprintf(&b, " Nous avons sélectionné %d produits qui répondent spécifiquement à vos besoins.", len(recs))
	}
	return b.String()
}

// salesArguments renders one numbered line per recommendation, in
// recommendation order.
func salesArguments(recs []model.ProductRecommendation) []string {
	args := make([]string, 0, len(recs))
	for i, rec := range recs {
		args = append(args, fmt.Sprintf("%d. **%s** (%.0f DT/an)\n   ✓ %s\n   ✓ %s",
			i+1, rec.Product.Product, rec.EstimatedPremium, rec.Reasoning, rec.ExpectedBenefit))
	}
	return args
}

func callToAction(count int) string {
	if count == 0 {
		return "Nous restons à votre disposition pour tout complément d'information sur nos produits."
	}
	return "Je serais ravi de vous présenter ces solutions en détail lors d'un rendez-vous à votre convenance. Puis-je vous contacter cette semaine pour programmer notre entretien ?"
}

// selectChannel routes by age band. Customers without a known age,
// organizations included, get email.
func selectChannel(rp model.RiskProfile) model.Channel {
	if rp.Age != nil && *rp.Age < 35 {
		return model.ChannelWhatsApp
	}
	if rp.Age != nil && *rp.Age > 55 {
		return model.ChannelPhone
	}
	return model.ChannelEmail
}

func urgency(recs []model.ProductRecommendation) model.UrgencyLevel {
	switch n := model.CountTopPriority(recs, 2); {
	case n > 1:
		return model.UrgencyHigh
	case n == 1:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}

func followUp(channel model.Channel, count int) string {
	timeframe := "7 jours"
	if count > 2 {
		timeframe = "3-5 jours"
	}
	return fmt.Sprintf("Relance %s dans %s si pas de réponse. Focus sur les %d recommandations prioritaires. Prévoir rendez-vous de présentation détaillée.",
		channel, timeframe, count)
}
