package assistantRepository

const (
	queryGetConversationByUserID = `
		SELECT
			id, user_id, flow, step, context, archived,
			created_at, last_activity
		FROM conversations
		WHERE user_id = :user_id
	`

	querySaveConversation = `
		INSERT INTO conversations (
			id, user_id, flow, step, context, archived,
			created_at, last_activity
		) VALUES (
			:id, :user_id, :flow, :step, :context, FALSE,
			:created_at, :last_activity
		)
		ON CONFLICT (user_id) DO UPDATE SET
			flow = EXCLUDED.flow,
			step = EXCLUDED.step,
			context = EXCLUDED.context,
			archived = FALSE,
			last_activity = EXCLUDED.last_activity
	`

	queryArchiveIdleConversations = `
		UPDATE conversations
		SET
			archived = TRUE,
			flow = 'default',
			step = '',
			context = '{}'
		WHERE archived = FALSE
		AND last_activity < :cutoff
	`

	propertyColumns = `
			id, title, description, location, address, price,
			property_type, bedrooms, bathrooms, amenities, rating, images,
			verified, is_featured, is_available, agent_name, agent_phone,
			agent_email, created_at, updated_at
	`

	querySearchCandidates = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE %s
		ORDER BY is_featured DESC, created_at DESC
		LIMIT :limit
	`

	queryGetPropertyByID = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = :id
	`

	queryGetPropertiesByIDs = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id = ANY(:ids)
	`

	queryGetFeaturedProperties = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE is_featured = TRUE
		AND is_available = TRUE
		ORDER BY rating DESC NULLS LAST, created_at DESC
		LIMIT :limit
	`

	queryGetPreference = `
		SELECT
			user_id, preferred_property_types, preferred_locations,
			price_min, price_max, preferred_amenities, updated_at
		FROM user_preferences
		WHERE user_id = :user_id
	`

	queryUpsertPreference = `
		INSERT INTO user_preferences (
			user_id, preferred_property_types, preferred_locations,
			price_min, price_max, preferred_amenities, updated_at
		) VALUES (
			:user_id, :preferred_property_types, :preferred_locations,
			:price_min, :price_max, :preferred_amenities, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_property_types = EXCLUDED.preferred_property_types,
			preferred_locations = EXCLUDED.preferred_locations,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			preferred_amenities = EXCLUDED.preferred_amenities,
			updated_at = EXCLUDED.updated_at
	`

	querySaveProperty = `
		INSERT INTO saved_properties (user_id, property_id, created_at)
		VALUES (:user_id, :property_id, :created_at)
		ON CONFLICT (user_id, property_id) DO NOTHING
	`

	queryGetSavedProperties = `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE id IN (
			SELECT property_id FROM saved_properties WHERE user_id = :user_id
		)
		ORDER BY created_at DESC
		LIMIT :limit
	`

	queryCreateInteraction = `
		INSERT INTO interactions (id, user_id, property_id, action, created_at)
		VALUES (:id, :user_id, :property_id, :action, :created_at)
	`

	queryCreateBooking = `
		INSERT INTO tour_bookings (id, user_id, property_id, details, status, created_at)
		VALUES (:id, :user_id, :property_id, :details, :status, :created_at)
	`
)
