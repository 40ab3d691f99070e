package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	dedupe "github.com/swinglabs/fourb/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should have default configuration", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a deduper with custom options", func() {
			d := dedupe.NewInMemoryDeduper(
				dedupe.WithMaxSize(100),
			)

			Convey("Then it should have custom configuration", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording import IDs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the import is new", func() {
				seen := d.SeenAndRecord(context.Background(), "import-1")

				Convey("Then it should return false and record the import", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the import was already seen", func() {
				// First time
				d.SeenAndRecord(context.Background(), "import-1")

				// Second time
				seen := d.SeenAndRecord(context.Background(), "import-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple imports are recorded", func() {
				imports := []string{"import-1", "import-2", "import-3", "import-4", "import-5"}

				for _, id := range imports {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all imports should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(imports)))

					// Check that all imports are seen
					for _, id := range imports {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording imports", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the import exists", func() {
				// Record the import
				d.SeenAndRecord(context.Background(), "import-1")
				So(d.Size(), ShouldEqual, 1)

				// Unrecord the import
				d.Unrecord(context.Background(), "import-1")

				Convey("Then it should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					// Should not be seen anymore
					seen := d.SeenAndRecord(context.Background(), "import-1")
					So(seen, ShouldBeFalse)
				})
			})

			Convey("And the import doesn't exist", func() {
				// Try to unrecord non-existent import
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})

			Convey("And multiple imports are unrecorded", func() {
				imports := []string{"import-1", "import-2", "import-3"}

				// Record all imports
				for _, id := range imports {
					d.SeenAndRecord(context.Background(), id)
				}
				So(d.Size(), ShouldEqual, int64(len(imports)))

				// Unrecord all imports
				for _, id := range imports {
					d.Unrecord(context.Background(), id)
				}

				Convey("Then all imports should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					// Check that none are seen
					for _, id := range imports {
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeFalse)
					}
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				// Fill to capacity
				imports := []string{"import-1", "import-2", "import-3"}
				for _, id := range imports {
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				// Add one more import
				seen := d.SeenAndRecord(context.Background(), "import-4")

				Convey("Then it should evict the oldest and add the new one", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// The oldest import was evicted, so recording it again
					// is treated as new and the size stays at the cap
					originalSize := d.Size()
					seen1 := d.SeenAndRecord(context.Background(), "import-1")
					So(seen1, ShouldBeFalse)
					So(d.Size(), ShouldEqual, originalSize)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many imports are recorded", func() {
				const numImports = 1000
				for i := 0; i < numImports; i++ {
					id := fmt.Sprintf("import-%d", i)
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all imports should be recorded without eviction", func() {
					So(d.Size(), ShouldEqual, int64(numImports))

					// Check that all imports are seen
					for i := 0; i < numImports; i++ {
						id := fmt.Sprintf("import-%d", i)
						seen := d.SeenAndRecord(context.Background(), id)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const numGoroutines = 10
		const importsPerGoroutine = 100

		Convey("When multiple goroutines record imports concurrently", func() {
			var wg sync.WaitGroup

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < importsPerGoroutine; j++ {
						id := fmt.Sprintf("import-%d-%d", goroutineID, j)
						d.SeenAndRecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all imports should be recorded successfully", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*importsPerGoroutine))
			})
		})

		Convey("When multiple goroutines unrecord imports concurrently", func() {
			// First, record some imports
			const numImports = 500
			for i := 0; i < numImports; i++ {
				id := fmt.Sprintf("import-%d", i)
				d.SeenAndRecord(context.Background(), id)
			}

			So(d.Size(), ShouldEqual, int64(numImports))

			// Now unrecord them concurrently
			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < numImports/numGoroutines; j++ {
						id := fmt.Sprintf("import-%d", goroutineID*(numImports/numGoroutines)+j)
						d.Unrecord(context.Background(), id)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all imports should be unrecorded successfully", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeEdgeCases(t *testing.T) {
	Convey("Given a deduper with edge cases", t, func() {
		Convey("When recording empty string", func() {
			d := dedupe.NewInMemoryDeduper()

			seen := d.SeenAndRecord(context.Background(), "")

			Convey("Then it should handle empty string", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Should be seen on second call
				seen2 := d.SeenAndRecord(context.Background(), "")
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When recording very long strings", func() {
			d := dedupe.NewInMemoryDeduper()

			longString := strings.Repeat("a", 10000)
			seen := d.SeenAndRecord(context.Background(), longString)

			Convey("Then it should handle long strings", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Should be seen on second call
				seen2 := d.SeenAndRecord(context.Background(), longString)
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When an unrecorded ID left a tombstone", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))

			// Record two, unrecord the first, leaving a tombstone in the
			// eviction order.
			d.SeenAndRecord(context.Background(), "import-1")
			d.SeenAndRecord(context.Background(), "import-2")
			d.Unrecord(context.Background(), "import-1")
			So(d.Size(), ShouldEqual, 1)

			Convey("Then eviction should skip the tombstone", func() {
				// Fill back to capacity and overflow once.
				So(d.SeenAndRecord(context.Background(), "import-3"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)

				So(d.SeenAndRecord(context.Background(), "import-4"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 2)

				// import-2 was the oldest live entry and should be gone.
				So(d.SeenAndRecord(context.Background(), "import-2"), ShouldBeFalse)
			})
		})

		Convey("When using very small max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1))

			Convey("And adding multiple imports", func() {
				// First import
				seen1 := d.SeenAndRecord(context.Background(), "import-1")
				So(seen1, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Second import should evict the first
				seen2 := d.SeenAndRecord(context.Background(), "import-2")
				So(seen2, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// First import was evicted; recording it again is new
				originalSize := d.Size()
				seen1Again := d.SeenAndRecord(context.Background(), "import-1")
				So(seen1Again, ShouldBeFalse)
				So(d.Size(), ShouldEqual, originalSize)
			})
		})

		Convey("When using negative max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

			Convey("Then it should be unbounded", func() {
				const numImports = 1000
				for i := 0; i < numImports; i++ {
					id := fmt.Sprintf("import-%d", i)
					seen := d.SeenAndRecord(context.Background(), id)
					So(seen, ShouldBeFalse)
				}

				So(d.Size(), ShouldEqual, int64(numImports))
			})
		})
	})
}

func TestDedupeOptions(t *testing.T) {
	Convey("Given dedupe options", t, func() {
		Convey("When using WithMaxSize", func() {
			Convey("Then it should set the max size", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(500))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is zero", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is negative", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-100))
				So(d, ShouldNotBeNil)
			})
		})
	})
}
