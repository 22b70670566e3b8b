package scenario

type (
	// Sent when the total number of work units is known.
	EventSetTotal int

	// Sent when one unit of work has completed, or when a fatal error ends
	// it early.
	EventProgress struct {
		Err  error
		Item string
	}

	// Sent when a customer takes a waiting-room chair.
	EventCustomerSeated struct {
		Customer int
		Waiting  int
	}

	// Sent when a customer finds every chair taken and leaves.
	EventCustomerTurnedAway struct {
		Customer int
	}

	// Sent when the barber finishes a haircut.
	EventCustomerServed struct {
		Customer int
	}

	// Sent when the agent places two ingredients on the table.
	EventIngredientsPlaced struct {
		Round   int
		Missing Ingredient
	}

	// Sent when the smoker holding the missing ingredient rolls and smokes.
	EventSmokerSmoked struct {
		Round  int
		Smoker Ingredient
	}

	// Sent when a traveler takes a seat in the boat.
	EventPassengerBoarded struct {
		From    Bank
		Boarded int
	}

	// Sent when a full boat crosses the river.
	EventBoatCrossed struct {
		From Bank
		Trip int
	}

	// Sent when all work has completed.
	EventRunDone struct {
		Err error
	}
)
