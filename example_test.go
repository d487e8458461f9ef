package bootkit_test

import (
	"fmt"

	"github.com/ormkit/bootkit"
)

type Clock interface {
	Now() string
}

type fixedClock struct{ at string }

func (c fixedClock) Now() string { return c.at }

// The shortest path through the pipeline: default bootstrap, a couple of
// settings, one direct mapping source, then metadata and the factory.
func Example() {
	builder, err := bootkit.NewStandardBuilder()
	if err != nil {
		panic(err)
	}
	if err := builder.ApplySetting(bootkit.SettingNamingStrategy, bootkit.NamingSnake); err != nil {
		panic(err)
	}
	if err := builder.ApplySetting(bootkit.SettingDefaultSchema, "app"); err != nil {
		panic(err)
	}

	container, err := builder.Build()
	if err != nil {
		panic(err)
	}

	sources := bootkit.NewSourceCollector().
		AddDirect(bootkit.EntityMapping{Name: "UserProfile"}).
		AddDirect(bootkit.EntityMapping{Name: "Order", Table: "orders_v2"})

	metadata, err := bootkit.NewMetadataBuilder(container, sources).Build()
	if err != nil {
		panic(err)
	}

	for _, entity := range metadata.Entities() {
		fmt.Printf("%s -> %s.%s\n", entity.Name, entity.Schema, entity.Table)
	}

	factory, err := metadata.SessionFactoryBuilder().Build()
	if err != nil {
		panic(err)
	}
	defer factory.Close()

	fmt.Println("factory closed:", factory.IsClosed())

	// Output:
	// Order -> app.orders_v2
	// UserProfile -> app.user_profile
	// factory closed: false
}

// Services are registered against interface contracts and resolved lazily,
// at most once per container.
func ExampleResolve() {
	bootstrapBuilder := bootkit.NewBootstrapBuilder()
	err := bootstrapBuilder.AddInitiator(bootkit.NewInitiator(func(bootkit.Registry) (Clock, error) {
		return fixedClock{at: "2024-01-01T00:00:00Z"}, nil
	}))
	if err != nil {
		panic(err)
	}

	bootstrap, err := bootstrapBuilder.Build()
	if err != nil {
		panic(err)
	}

	clock, err := bootkit.Resolve[Clock](bootstrap)
	if err != nil {
		panic(err)
	}
	fmt.Println(clock.Now())

	// Output:
	// 2024-01-01T00:00:00Z
}

// A standard container can override an inherited default, while an explicit
// instance beats any initiator.
func ExampleStandardBuilder() {
	bootstrapBuilder := bootkit.NewBootstrapBuilder()
	err := bootstrapBuilder.AddInitiator(bootkit.NewInitiator(func(bootkit.Registry) (Clock, error) {
		return fixedClock{at: "bootstrap"}, nil
	}))
	if err != nil {
		panic(err)
	}

	bootstrap, err := bootstrapBuilder.Build()
	if err != nil {
		panic(err)
	}

	builder := bootkit.NewStandardBuilderFrom(bootstrap)
	err = builder.AddService(bootkit.ContractOf[Clock](), fixedClock{at: "explicit"})
	if err != nil {
		panic(err)
	}

	container, err := builder.Build()
	if err != nil {
		panic(err)
	}

	clock, err := bootkit.Resolve[Clock](container)
	if err != nil {
		panic(err)
	}
	fmt.Println(clock.Now())

	inherited, err := bootkit.Resolve[Clock](bootstrap)
	if err != nil {
		panic(err)
	}
	fmt.Println(inherited.Now())

	// Output:
	// explicit
	// bootstrap
}
