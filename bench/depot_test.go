package bench

import (
	"testing"

	"github.com/TheBitDrifter/depot"
)

const (
	nPos    = 9000
	nPosVel = 1000
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func BenchmarkIterDepotGet(b *testing.B) {
	b.StopTimer()

	velocity := depot.FactoryNewComponent[Velocity]()
	position := depot.FactoryNewComponent[Position]()
	world := depot.Factory.NewWorld()
	defer world.Close()

	entities, _ := world.NewEntities(nPosVel, position, velocity)
	world.NewEntities(nPos, position)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, e := range entities {
			pos, _ := position.GetFromEntity(world, e)
			vel, _ := velocity.GetFromEntity(world, e)

			pos.X += vel.X
			pos.Y += vel.Y
		}
	}
}

func BenchmarkAddRemoveDepot(b *testing.B) {
	b.StopTimer()

	velocity := depot.FactoryNewComponent[Velocity]()
	position := depot.FactoryNewComponent[Position]()
	world := depot.Factory.NewWorld()
	defer world.Close()

	entities, _ := world.NewEntities(nPosVel, position)

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		for _, e := range entities {
			velocity.Add(world, e, Velocity{X: 1})
		}
		for _, e := range entities {
			velocity.Remove(world, e)
		}
	}
}

func BenchmarkCreateDestroyDepot(b *testing.B) {
	b.StopTimer()

	position := depot.FactoryNewComponent[Position]()
	world := depot.Factory.NewWorld()
	defer world.Close()

	b.StartTimer()

	for i := 0; i < b.N; i++ {
		entities, _ := world.NewEntities(nPosVel, position)
		for _, e := range entities {
			world.DestroyEntity(e)
		}
	}
}
