package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mindcare/internal/client/models"
)

// Profile saves the nutrition profile, or prints the stored profile when
// called as "profile show". Blank answers leave the field unset.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "show" {
		p, err := a.api.Profile(ctx)
		if err != nil {
			return err
		}
		a.printProfile(p)
		return nil
	}

	var (
		n   models.NutritionProfile
		err error
	)
	if n.Age, err = a.askInt("Age"); err != nil {
		return err
	}
	if n.Gender, err = a.askText("Gender"); err != nil {
		return err
	}
	if n.Height, err = a.askInt("Height (cm)"); err != nil {
		return err
	}
	if n.Weight, err = a.askInt("Weight (kg)"); err != nil {
		return err
	}
	if n.ActivityLevel, err = a.askText("Activity level"); err != nil {
		return err
	}
	if n.MedicalConditions, err = a.askText("Medical conditions"); err != nil {
		return err
	}
	if n.FoodPreferences, err = a.askText("Food preferences"); err != nil {
		return err
	}
	if n.Allergies, err = a.askText("Allergies"); err != nil {
		return err
	}
	if n.HealthGoal, err = a.askText("Health goal"); err != nil {
		return err
	}

	p, err := a.api.SaveNutrition(ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile saved")
	a.printProfile(p)
	return nil
}

// WellnessProfile saves the wellness profile. Body metrics already stored
// by "profile" are kept by the server.
func (a *App) WellnessProfile(ctx context.Context, _ []string) error {
	var (
		w   models.WellnessProfile
		err error
	)
	if w.Age, err = a.askInt("Age"); err != nil {
		return err
	}
	if w.Gender, err = a.askText("Gender"); err != nil {
		return err
	}
	if w.Occupation, err = a.askText("Occupation"); err != nil {
		return err
	}
	if w.MentalHealthConcerns, err = a.askText("Mental health concerns"); err != nil {
		return err
	}
	if w.SupportPreferences, err = a.askText("Support preferences"); err != nil {
		return err
	}
	if w.StressLevel, err = a.askText("Stress level"); err != nil {
		return err
	}
	if w.HealthGoal, err = a.askText("Wellness goal"); err != nil {
		return err
	}

	p, err := a.api.SaveWellness(ctx, w)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Wellness profile saved")
	a.printProfile(p)
	return nil
}

func (a *App) askText(prompt string) (*string, error) {
	s, err := a.ask(prompt + " (optional)")
	if err != nil {
		return nil, err
	}
	return optionalText(s), nil
}

func (a *App) askInt(prompt string) (*int, error) {
	s, err := a.ask(prompt + " (optional)")
	if err != nil {
		return nil, err
	}
	return optionalInt(s)
}

func (a *App) printProfile(p *models.Profile) {
	fmt.Fprintf(a.out, "Profile (%s, updated %s)\n", p.Profile.SlotContext, p.Profile.UpdatedAt.Format("2006-01-02 15:04"))

	n := p.Nutrition
	printField(a, "Age", n.Age)
	printField(a, "Gender", n.Gender)
	printField(a, "Height", n.Height)
	printField(a, "Weight", n.Weight)
	printField(a, "Activity level", n.ActivityLevel)
	printField(a, "Medical conditions", n.MedicalConditions)
	printField(a, "Food preferences", n.FoodPreferences)
	printField(a, "Allergies", n.Allergies)
	printField(a, "Health goal", n.HealthGoal)

	w := p.Wellness
	printField(a, "Occupation", w.Occupation)
	printField(a, "Mental health concerns", w.MentalHealthConcerns)
	printField(a, "Support preferences", w.SupportPreferences)
	printField(a, "Stress level", w.StressLevel)
}

func printField[T any](a *App, label string, v *T) {
	if v != nil {
		fmt.Fprintf(a.out, "  %-24s %v\n", label+":", *v)
	}
}
