package gtfs

import (
	s "github.com/JonMunkholm/transitcheck/internal/schema"
)

func init() {
	registerFareAttributes()
	registerFareRules()
	registerShapes()
	registerTransfers()
	registerLevels()
	registerPathways()
	registerTranslations()
	registerAttributions()
}

func registerFareAttributes() {
	s.Register(s.TableSchema{
		Filename: FareAttributesFile,
		Fields: []s.FieldSpec{
			{Name: "fare_id", Type: s.FieldID, Presence: s.Required},
			{Name: "price", Type: s.FieldDecimal, Presence: s.Required, Bounds: s.NonNegative},
			{Name: "currency_type", Type: s.FieldCurrency, Presence: s.Required},
			{Name: "payment_method", Type: s.FieldEnum, Presence: s.Required, EnumValues: zeroOne},
			// Empty means unlimited transfers, so only the column is expected.
			{Name: "transfers", Type: s.FieldEnum, EnumValues: zeroToTwo},
			{Name: "agency_id", Type: s.FieldID, ForeignKey: fk(AgencyFile, "agency_id")},
			{Name: "transfer_duration", Type: s.FieldInteger, Bounds: s.NonNegative},
		},
		PrimaryKey: []string{"fare_id"},
	})
}

func registerFareRules() {
	s.Register(s.TableSchema{
		Filename: FareRulesFile,
		Fields: []s.FieldSpec{
			{Name: "fare_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(FareAttributesFile, "fare_id")},
			{Name: "route_id", Type: s.FieldID, ForeignKey: fk(RoutesFile, "route_id")},
			{Name: "origin_id", Type: s.FieldID},
			{Name: "destination_id", Type: s.FieldID},
			{Name: "contains_id", Type: s.FieldID},
		},
	})
}

func registerShapes() {
	s.Register(s.TableSchema{
		Filename: ShapesFile,
		Fields: []s.FieldSpec{
			{Name: "shape_id", Type: s.FieldID, Presence: s.Required, Index: true},
			{Name: "shape_pt_lat", Type: s.FieldLatitude, Presence: s.Required},
			{Name: "shape_pt_lon", Type: s.FieldLongitude, Presence: s.Required},
			{Name: "shape_pt_sequence", Type: s.FieldInteger, Presence: s.Required, Bounds: s.NonNegative},
			{Name: "shape_dist_traveled", Type: s.FieldFloat, Bounds: s.NonNegative},
		},
		PrimaryKey: []string{"shape_id", "shape_pt_sequence"},
	})
}

func registerTransfers() {
	s.Register(s.TableSchema{
		Filename: TransfersFile,
		Fields: []s.FieldSpec{
			{Name: "from_stop_id", Type: s.FieldID, Presence: s.ConditionallyRequired,
				ForeignKey: fk(StopsFile, "stop_id")},
			{Name: "to_stop_id", Type: s.FieldID, Presence: s.ConditionallyRequired,
				ForeignKey: fk(StopsFile, "stop_id")},
			{Name: "from_route_id", Type: s.FieldID, ForeignKey: fk(RoutesFile, "route_id")},
			{Name: "to_route_id", Type: s.FieldID, ForeignKey: fk(RoutesFile, "route_id")},
			{Name: "from_trip_id", Type: s.FieldID, ForeignKey: fk(TripsFile, "trip_id")},
			{Name: "to_trip_id", Type: s.FieldID, ForeignKey: fk(TripsFile, "trip_id")},
			{Name: "transfer_type", Type: s.FieldEnum, Presence: s.Required,
				EnumValues: []int{0, 1, 2, 3, 4, 5}},
			{Name: "min_transfer_time", Type: s.FieldInteger, Bounds: s.NonNegative},
		},
	})
}

func registerLevels() {
	s.Register(s.TableSchema{
		Filename: LevelsFile,
		Fields: []s.FieldSpec{
			{Name: "level_id", Type: s.FieldID, Presence: s.Required},
			{Name: "level_index", Type: s.FieldFloat, Presence: s.Required},
			{Name: "level_name", Type: s.FieldText},
		},
		PrimaryKey: []string{"level_id"},
	})
}

func registerPathways() {
	s.Register(s.TableSchema{
		Filename: PathwaysFile,
		Fields: []s.FieldSpec{
			{Name: "pathway_id", Type: s.FieldID, Presence: s.Required},
			{Name: "from_stop_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(StopsFile, "stop_id")},
			{Name: "to_stop_id", Type: s.FieldID, Presence: s.Required,
				ForeignKey: fk(StopsFile, "stop_id")},
			{Name: "pathway_mode", Type: s.FieldEnum, Presence: s.Required,
				EnumValues: []int{1, 2, 3, 4, 5, 6, 7}},
			{Name: "is_bidirectional", Type: s.FieldEnum, Presence: s.Required, EnumValues: zeroOne},
			{Name: "length", Type: s.FieldFloat, Bounds: s.NonNegative},
			{Name: "traversal_time", Type: s.FieldInteger, Bounds: s.Positive},
			{Name: "stair_count", Type: s.FieldInteger, Bounds: s.NonZero},
			{Name: "max_slope", Type: s.FieldFloat},
			{Name: "min_width", Type: s.FieldFloat, Bounds: s.Positive},
			{Name: "signposted_as", Type: s.FieldText},
			{Name: "reversed_signposted_as", Type: s.FieldText},
		},
		PrimaryKey: []string{"pathway_id"},
	})
}

func registerTranslations() {
	s.Register(s.TableSchema{
		Filename: TranslationsFile,
		Fields: []s.FieldSpec{
			{Name: "table_name", Type: s.FieldText, Presence: s.Required},
			{Name: "field_name", Type: s.FieldText, Presence: s.Required},
			{Name: "language", Type: s.FieldLanguage, Presence: s.Required},
			{Name: "translation", Type: s.FieldText, Presence: s.Required},
			{Name: "record_id", Type: s.FieldID, Presence: s.ConditionallyRequired},
			{Name: "record_sub_id", Type: s.FieldID, Presence: s.ConditionallyRequired},
			{Name: "field_value", Type: s.FieldText, Presence: s.ConditionallyRequired},
		},
	})
}

func registerAttributions() {
	s.Register(s.TableSchema{
		Filename: AttributionsFile,
		Fields: []s.FieldSpec{
			{Name: "attribution_id", Type: s.FieldID},
			{Name: "agency_id", Type: s.FieldID, ForeignKey: fk(AgencyFile, "agency_id")},
			{Name: "route_id", Type: s.FieldID, ForeignKey: fk(RoutesFile, "route_id")},
			{Name: "trip_id", Type: s.FieldID, ForeignKey: fk(TripsFile, "trip_id")},
			{Name: "organization_name", Type: s.FieldText, Presence: s.Required},
			{Name: "is_producer", Type: s.FieldEnum, EnumValues: zeroOne},
			{Name: "is_operator", Type: s.FieldEnum, EnumValues: zeroOne},
			{Name: "is_authority", Type: s.FieldEnum, EnumValues: zeroOne},
			{Name: "attribution_url", Type: s.FieldURL},
			{Name: "attribution_email", Type: s.FieldEmail},
			{Name: "attribution_phone", Type: s.FieldPhone},
		},
		PrimaryKey: []string{"attribution_id"},
	})
}
