package sim

import (
	"math/rand/v2"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSim(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Simulation Suite")
}

var _ = Describe("Simulation", func() {
	var (
		s  *Simulation
		dt time.Duration
	)

	BeforeEach(func() {
		dt = 10 * time.Millisecond
		s = New(DefaultParams(), WithRandSource(rand.NewPCG(11, 13)))
	})

	Describe("holding the ball", func() {
		It("keeps the ball at its initial state while the loop runs", func() {
			s.Config(SetNoise(0))
			s.Config(SetHoldBall(true))

			snap := s.Step(100, dt)
			Expect(snap.Position).To(Equal(float32(DefaultBallPosition)))
			Expect(snap.Velocity).To(Equal(float32(DefaultBallVelocity)))
		})

		It("lets the ball move again once dropped", func() {
			s.Config(SetHoldBall(true))
			s.Step(20, dt)
			s.Config(SetHoldBall(false))

			snap := s.Step(20, dt)
			Expect(snap.Position).NotTo(Equal(float32(DefaultBallPosition)))
		})
	})

	Describe("levitation", func() {
		It("settles at the target without noise", func() {
			s.Config(SetNoise(0))
			snap := s.Step(3000, dt)
			Expect(snap.Position).To(BeNumerically("~", DefaultTarget, 0.01))
		})

		It("follows a new target", func() {
			s.Config(SetNoise(0))
			s.Step(1500, dt)
			s.Config(SetTarget(0.6))

			snap := s.Step(3000, dt)
			Expect(snap.Position).To(BeNumerically("~", 0.6, 0.02))
		})

		It("stays near the target with a noisy sensor", func() {
			snap := s.Step(3000, dt)
			Expect(snap.Position).To(BeNumerically("~", DefaultTarget, 0.05))
		})
	})

	Describe("force limits", func() {
		It("never exceeds the amplitude limit", func() {
			s.Config(SetMaxForce(5))
			s.Config(SetMaxForceRate(1000))
			for i := 0; i < 200; i++ {
				snap := s.Step(1, dt)
				Expect(snap.Force).To(BeNumerically("<=", 5))
				Expect(snap.Force).To(BeNumerically(">=", -5))
			}
		})
	})

	Describe("reset and restart", func() {
		BeforeEach(func() {
			s.Config(SetKp(12))
			s.Config(SetKi(0))
			s.Config(SetTarget(0.4))
			s.Config(SetMaxForce(25))
			s.Config(SetNoise(0.02))
			s.Step(400, dt)
		})

		It("Reset restores state and keeps tuning", func() {
			s.Config(Reset{})

			p := s.Params()
			Expect(p.Kp).To(Equal(float32(12)))
			Expect(p.Ki).To(BeZero())
			Expect(p.Target).To(Equal(float32(0.4)))
			Expect(p.MaxForce).To(Equal(float32(25)))
			Expect(p.Noise).To(Equal(float32(0.02)))
			Expect(s.Snapshot()).To(Equal(Snapshot{Position: DefaultBallPosition}))
		})

		It("Restart discards all tuning", func() {
			s.Config(Restart{})

			Expect(s.Params()).To(Equal(DefaultParams()))
			Expect(s.Snapshot()).To(Equal(Snapshot{Position: DefaultBallPosition}))
		})
	})
})
