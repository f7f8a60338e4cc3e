package config

import "github.com/verte-zerg/settei/internal/model"

// DefaultTemplates returns the built-in commentary bank.
func DefaultTemplates() model.TemplateBank {
	return model.TemplateBank{
		model.StageEarly: {
			5: {"Best possible rocket start!", "Very strong behaviour, keep going."},
			4: {"High-setting mood from the start.", "Feels good, spin a bit more to be sure."},
			3: {"Too early to call, but not bad.", "Watch and keep adding samples."},
			2: {"Early swings are large, stay careful.", "Still hard to tell either way."},
			1: {"Early results swing, don't chase.", "Walking away is a fair option."},
		},
		model.StageMid: {
			5: {"Steady high-setting behaviour.", "Keep pushing."},
			4: {"Strong signs, quite positive.", "More samples will firm this up."},
			3: {"Could go either way, almost visible.", "A little more before deciding to stay or leave."},
			2: {"Expectation is on the low side, be careful.", "Keep an exit in mind while spinning."},
			1: {"The odds are against you.", "Consider another machine."},
		},
		model.StageLate: {
			5: {"Spin it until closing.", "It's decided, run it out."},
			4: {"Very strong, fine to push through.", "Keep going as time allows."},
			3: {"Slightly ahead but nothing decisive.", "Only chase with a plan."},
			2: {"Leaning risky, chase only with a reason.", "Don't force it."},
			1: {"Leaving is recommended.", "Switch while the damage is small."},
		},
	}
}
