package game

import "math/rand"

// Static content pools. The engine treats these as opaque banks to
// sample from; transitions take an explicit *rand.Rand so tests can
// seed the sampling.

var WordBank = []Word{
	{Word: "Apple", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Dog", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Cat", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Sun", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Moon", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Car", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Book", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Fish", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Tree", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Ball", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Chair", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Door", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Shoe", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Hat", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Bird", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Milk", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Bed", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Rain", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Snow", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Fire", Difficulty: DifficultyEasy, Points: 1},
	{Word: "Guitar", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Planet", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Doctor", Difficulty: DifficultyMedium, Points: 3},
	{Word: "School", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Summer", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Winter", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Friend", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Family", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Garden", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Market", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Office", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Travel", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Music", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Movie", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Phone", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Laptop", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Camera", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Coffee", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Pizza", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Burger", Difficulty: DifficultyMedium, Points: 3},
	{Word: "Astronaut", Difficulty: DifficultyHard, Points: 5},
	{Word: "Microscope", Difficulty: DifficultyHard, Points: 5},
	{Word: "Telescope", Difficulty: DifficultyHard, Points: 5},
	{Word: "Symphony", Difficulty: DifficultyHard, Points: 5},
	{Word: "Evolution", Difficulty: DifficultyHard, Points: 5},
	{Word: "Revolution", Difficulty: DifficultyHard, Points: 5},
	{Word: "Philosophy", Difficulty: DifficultyHard, Points: 5},
	{Word: "Psychology", Difficulty: DifficultyHard, Points: 5},
	{Word: "Architecture", Difficulty: DifficultyHard, Points: 5},
	{Word: "Engineering", Difficulty: DifficultyHard, Points: 5},
	{Word: "Photosynthesis", Difficulty: DifficultyHard, Points: 5},
	{Word: "Metamorphosis", Difficulty: DifficultyHard, Points: 5},
	{Word: "Constellation", Difficulty: DifficultyHard, Points: 5},
	{Word: "Civilization", Difficulty: DifficultyHard, Points: 5},
	{Word: "Globalization", Difficulty: DifficultyHard, Points: 5},
}

var Topics = []string{
	"A Trip to the Dentist", "My First Date", "Cooking a Meal", "A Day at the Beach", "Lost in the Woods",
	"The Job Interview", "A Haunted House", "Winning the Lottery", "The Alien Abduction", "A Royal Wedding",
	"The Zombie Apocalypse", "First Day of School", "The Worst Vacation Ever", "Meeting a Celebrity", "The Secret Mission",
	"Trapped in an Elevator", "The Magic Show", "A Day in the Life of a Cat", "The Time Machine", "Climbing Mount Everest",
	"The Bank Heist", "A Blind Date", "The Cooking Competition", "Surviving a Shipwreck", "The Super Hero Origin Story",
	"A Night at the Museum", "The High School Reunion", "The Unexpected Guest", "A Day at the Zoo", "The Space Station",
	"The Pirate Treasure", "The Wild West", "A Medieval Feast", "The Olympic Games", "The Fashion Show",
	"A Day on the Farm", "The Circus", "The Rock Concert", "The Detective Mystery", "The Mad Scientist's Lab",
}

var Nouns = []string{
	"Elephant", "Giraffe", "Penguin", "Kangaroo", "Koala", "Lion", "Tiger", "Bear", "Zebra", "Monkey",
	"Flamingo", "Peacock", "Parrot", "Eagle", "Owl", "Swan", "Duck", "Rooster", "Sheep", "Goat",
	"Rabbit", "Hamster", "Squirrel", "Beaver", "Otter", "Walrus", "Whale", "Dolphin", "Octopus", "Jellyfish",
	"Pizza", "Burger", "Taco", "Burrito", "Sushi", "Lasagna", "Croissant", "Donut", "Cupcake", "Brownie",
	"Banana", "Pineapple", "Mango", "Watermelon", "Strawberry", "Broccoli", "Mushroom", "Cactus", "Coconut", "Pretzel",
	"Trumpet", "Violin", "Accordion", "Harmonica", "Tambourine", "Spaceship", "Tractor", "Submarine", "Helicopter", "Skateboard",
	"Telescope", "Compass", "Flashlight", "Umbrella", "Backpack", "Typewriter", "Velcro", "Magnet", "Anchor", "Lantern",
	"Poodle", "Penguin", "Scarecrow", "Snowman", "Pirate", "Wizard", "Juggler", "Mermaid", "Robot", "Ninja",
}

var SpectrumCards = []SpectrumCard{
	{Left: "Hot", Right: "Cold"},
	{Left: "Underrated", Right: "Overrated"},
	{Left: "Useless", Right: "Useful"},
	{Left: "Scary", Right: "Comforting"},
	{Left: "Cheap", Right: "Expensive"},
	{Left: "Quiet", Right: "Loud"},
	{Left: "Ancient", Right: "Modern"},
	{Left: "Soft", Right: "Hard"},
	{Left: "Guilty Pleasure", Right: "Openly Loved"},
	{Left: "Bad Habit", Right: "Good Habit"},
	{Left: "Dry", Right: "Wet"},
	{Left: "Ordinary", Right: "Extraordinary"},
	{Left: "Fragile", Right: "Durable"},
	{Left: "Casual", Right: "Formal"},
	{Left: "Forgettable", Right: "Memorable"},
	{Left: "Basic Need", Right: "Luxury"},
	{Left: "Introvert Activity", Right: "Extrovert Activity"},
	{Left: "Snack", Right: "Meal"},
	{Left: "Weird", Right: "Normal"},
	{Left: "Slow", Right: "Fast"},
}

// sampleWords deals n words from the bank without replacement.
func sampleWords(rng *rand.Rand, n int) []TurnWord {
	if n > len(WordBank) {
		n = len(WordBank)
	}
	idx := rng.Perm(len(WordBank))
	out := make([]TurnWord, 0, n)
	for _, i := range idx[:n] {
		w := WordBank[i]
		out = append(out, TurnWord{Word: w.Word, Difficulty: w.Difficulty, Points: w.Points})
	}
	return out
}

// sampleNouns deals n candidate secret words without replacement.
func sampleNouns(rng *rand.Rand, n int) []string {
	if n > len(Nouns) {
		n = len(Nouns)
	}
	idx := rng.Perm(len(Nouns))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, Nouns[i])
	}
	return out
}

func randomTopic(rng *rand.Rand) string {
	return Topics[rng.Intn(len(Topics))]
}

func randomSpectrumCard(rng *rand.Rand) SpectrumCard {
	return SpectrumCards[rng.Intn(len(SpectrumCards))]
}
