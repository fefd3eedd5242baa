package domain

import "launchdeck/internal/core/query"

// Relations that a query may ask to populate
const (
	RelRocket    = "rocket"
	RelLaunchpad = "launchpad"
)

// Schema is the queryable surface of launches; window maps to launch_window
var Schema = query.NewSchema(
	query.Field{Name: "id", Kind: query.KindUUID, Sortable: true},
	query.Field{Name: "flight_number", Kind: query.KindInt, Sortable: true},
	query.Field{Name: "name", Kind: query.KindString, Sortable: true},
	query.Field{Name: "date_utc", Kind: query.KindTime, Sortable: true},
	query.Field{Name: "date_precision", Kind: query.KindString, Sortable: true, Enum: DatePrecisions},
	query.Field{Name: "upcoming", Kind: query.KindBool, Sortable: true},
	query.Field{Name: "success", Kind: query.KindBool, Nullable: true, Sortable: true},
	query.Field{Name: "details", Kind: query.KindString, Nullable: true},
	query.Field{Name: "rocket", Kind: query.KindString, Nullable: true},
	query.Field{Name: "launchpad", Kind: query.KindString, Nullable: true},
	query.Field{Name: "tbd", Kind: query.KindBool},
	query.Field{Name: "net", Kind: query.KindBool},
	query.Field{Name: "window", Column: "launch_window", Kind: query.KindInt, Nullable: true, Sortable: true},
	query.Field{Name: "auto_update", Kind: query.KindBool},
	query.Field{Name: "created_at", Kind: query.KindTime, Sortable: true},
	query.Field{Name: "updated_at", Kind: query.KindTime, Sortable: true},
).WithRelations(RelRocket, RelLaunchpad).WithTiebreak("flight_number", "id")

// Upcoming filters on the upcoming flag
func Upcoming(v bool) query.Predicate { return Schema.MustMatch("upcoming", query.OpEq, v) }

// ByFlight sorts on flight_number in dir
func ByFlight(dir query.Dir) []query.Sort {
	return []query.Sort{{Field: Schema.MustField("flight_number"), Dir: dir}}
}
