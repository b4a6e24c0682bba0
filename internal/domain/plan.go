package domain

// One ranked charging stop, possibly chained with a second hop when the
// first stop's post-charge range cannot cover the remaining trip.
// SecondHop is nil both for feasible single-stop plans and for degraded
// plans where no second-hop candidate was found.
type StopPlan struct {
	FirstHop AnnotatedStation

	SecondHop                    *AnnotatedStation
	SecondHopTimeS               *int
	SecondHopChargingTimeMinutes *int
}

// RequiresSecondHop reports whether the plan chains two stops.
func (p StopPlan) RequiresSecondHop() bool { return p.SecondHop != nil }
