package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

type jumpRangeContext struct {
	jumpRange system.JumpRange
	distance  float64
	accepted  bool
}

func (jc *jumpRangeContext) reset() {
	jc.jumpRange = system.DefaultJumpRange()
	jc.distance = 0
	jc.accepted = false
}

func (jc *jumpRangeContext) aJumpRangeOfLy(radius float64) error {
	jc.jumpRange.Radius = radius
	return nil
}

func (jc *jumpRangeContext) iCheckAJumpFromTo(x1, y1, z1, x2, y2, z2 float64) error {
	jc.distance, jc.accepted = jc.jumpRange.Verify(shared.NewCoordinate(x1, y1, z1), shared.NewCoordinate(x2, y2, z2))
	return nil
}

func (jc *jumpRangeContext) theJumpShouldBe(verdict string) error {
	want := verdict == "accepted"
	if jc.accepted != want {
		return fmt.Errorf("expected the %.6f ly jump to be %s", jc.distance, verdict)
	}
	return nil
}

func (jc *jumpRangeContext) theJumpDistanceShouldBe(expected float64) error {
	if jc.distance != expected {
		return fmt.Errorf("expected distance %.6f, got %.6f", expected, jc.distance)
	}
	return nil
}

func InitializeJumpRangeScenario(ctx *godog.ScenarioContext) {
	jc := &jumpRangeContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		jc.reset()
		return ctx, nil
	})

	ctx.Step(`^a jump range of ([0-9.]+) ly$`, jc.aJumpRangeOfLy)
	ctx.Step(`^I check a jump from (-?[0-9.]+), (-?[0-9.]+), (-?[0-9.]+) to (-?[0-9.]+), (-?[0-9.]+), (-?[0-9.]+)$`, jc.iCheckAJumpFromTo)
	ctx.Step(`^the jump should be (accepted|rejected)$`, jc.theJumpShouldBe)
	ctx.Step(`^the jump distance should be ([0-9.]+) ly$`, jc.theJumpDistanceShouldBe)
}
