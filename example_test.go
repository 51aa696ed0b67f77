package timedstore_test

import (
	"fmt"
	"time"

	"timedstore"
)

func Example() {
	tm, err := timedstore.New[string, string](timedstore.Config{
		Timeout: 30 * time.Second,
	})
	if err != nil {
		panic(err)
	}
	defer tm.Stop()

	tm.Set("foo", "bar")

	if v, ok := tm.Get("foo"); ok {
		fmt.Println(v)
	}

	fmt.Println(tm.Contains("foo"))
	fmt.Println(tm.Len())

	tm.Delete("foo")
	_, ok := tm.Get("foo")
	fmt.Println(ok)

	// Output:
	// bar
	// true
	// 1
	// false
}

func ExampleWithCallback() {
	// Extra callback arguments are bound by closing over them.
	owner := "session-reaper"

	tm, err := timedstore.New[string, int](
		timedstore.Config{Timeout: time.Minute},
		timedstore.WithCallback[string, int](func(key string, value int) {
			fmt.Printf("%s: %s expired with %d\n", owner, key, value)
		}),
	)
	if err != nil {
		panic(err)
	}
	defer tm.Stop()

	tm.Set("sess-1", 42)
	// Output:
}
