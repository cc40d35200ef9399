package apply

type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepResume
	StepBehavioral
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "Personal Info"
	case StepResume:
		return "Resume"
	case StepBehavioral:
		return "Questions"
	case StepSuccess:
		return "Submitted"
	default:
		return "Unknown"
	}
}

func (s Step) Valid() bool {
	return s >= StepPersonalInfo && s <= StepSuccess
}
