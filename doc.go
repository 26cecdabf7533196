/*
Package depot provides the archetype storage core of an Entity-Component-System (ECS).

Entities that carry exactly the same set of component types share one archetype table,
where every component type has its own packed column and all columns are aligned by
slot. Adding or removing a component moves the entity to the neighbouring archetype;
the vacated row is filled by swap-remove and the entity that was moved is repointed, so
every other entity's location stays valid and lookups stay O(1).

Core Concepts:

  - Entity: An id with no data of its own. Ids are never reused.
  - Component: Any Go type attached to an entity. Each type gets a family id on first use.
  - Signature: The bitset of family ids describing an exact component set.
  - Archetype: The table holding all entities of one signature.
  - Job: Work scheduled on a worker pool, optionally after another job.

Basic Usage:

	world := depot.Factory.NewWorld()
	defer world.Close()

	position := depot.FactoryNewComponent[Position]()
	velocity := depot.FactoryNewComponent[Velocity]()

	e := world.CreateEntity()
	_ = position.Add(world, e, Position{X: 1, Y: 2})
	_ = depot.AddComponent(world, e, Velocity{X: 1})

	pos, _ := position.GetFromEntity(world, e)
	vel, _ := velocity.GetFromEntity(world, e)
	pos.X += vel.X

	_ = depot.RemoveComponent[Velocity](world, e)
	_ = world.DestroyEntity(e)

A World is not safe for concurrent structural changes. Jobs that need to add or remove
components while others run either coordinate externally, or the world is locked before
they are scheduled and the Enqueue variants, which are safe to call from several jobs at
once, defer the changes until Unlock. Unlock is called after those jobs have finished.
*/
package depot
