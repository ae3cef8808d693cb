package discovery

import "strings"

const maxAvailabilityOptions = 4

// availabilityRule associates franchise/platform name fragments with the
// service most likely to carry the title. Rules are evaluated in order and
// every match accumulates, so a crossover title can surface on more than one
// service.
type availabilityRule struct {
	keywords []string
	option   AvailabilityOption
}

var availabilityRules = []availabilityRule{
	{
		keywords: []string{"disney", "pixar", "marvel", "star wars"},
		option:   AvailabilityOption{Service: "Disney+", Type: "subscription", Link: "https://www.disneyplus.com", Quality: "hd"},
	},
	{
		keywords: []string{"netflix", "stranger things", "the witcher", "the crown"},
		option:   AvailabilityOption{Service: "Netflix", Type: "subscription", Link: "https://www.netflix.com", Quality: "hd"},
	},
	{
		keywords: []string{"hbo", "game of thrones", "succession", "the last of us"},
		option:   AvailabilityOption{Service: "HBO Max", Type: "subscription", Link: "https://www.max.com", Quality: "hd"},
	},
	{
		keywords: []string{"amazon", "prime", "the boys", "maisel"},
		option:   AvailabilityOption{Service: "Prime Video", Type: "subscription", Link: "https://www.primevideo.com", Quality: "hd"},
	},
}

var (
	defaultStreamingOption = AvailabilityOption{Service: "Netflix", Type: "subscription", Link: "https://www.netflix.com", Quality: "hd"}
	defaultShowOption      = AvailabilityOption{Service: "Hulu", Type: "subscription", Link: "https://www.hulu.com", Quality: "hd"}

	movieRentalOptions = []AvailabilityOption{
		{Service: "Apple TV", Type: "rent", Link: "https://tv.apple.com", Quality: "hd", Price: "$3.99"},
		{Service: "Amazon Video", Type: "rent", Link: "https://www.amazon.com/video", Quality: "hd", Price: "$3.99"},
	}
)

// heuristicAvailability builds the mock availability list used when the
// provider fails or has no match. Keyword hits come first, then kind-specific
// defaults, capped at four unique services.
func heuristicAvailability(title string, kind Kind) []AvailabilityOption {
	lowered := strings.ToLower(title)
	options := make([]AvailabilityOption, 0, maxAvailabilityOptions)

	for _, rule := range availabilityRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				options = appendUniqueService(options, rule.option)
				break
			}
		}
	}

	if len(options) == 0 {
		options = appendUniqueService(options, defaultStreamingOption)
	}
	if kind == KindTV {
		options = appendUniqueService(options, defaultShowOption)
	} else {
		for _, rental := range movieRentalOptions {
			options = appendUniqueService(options, rental)
		}
	}

	if len(options) > maxAvailabilityOptions {
		options = options[:maxAvailabilityOptions]
	}
	return options
}

func appendUniqueService(options []AvailabilityOption, candidate AvailabilityOption) []AvailabilityOption {
	for _, existing := range options {
		if strings.EqualFold(existing.Service, candidate.Service) {
			return options
		}
	}
	candidate.Source = SourceHeuristic
	return append(options, candidate)
}

// normalizeOptions deduplicates provider results by service identity,
// preferring the stable service id over the display name, and caps the list.
func normalizeOptions(raw []StreamingOption) []AvailabilityOption {
	const maxProviderOptions = 5

	seen := make(map[string]struct{}, len(raw))
	options := make([]AvailabilityOption, 0, maxAvailabilityOptions)
	for _, opt := range raw {
		if len(options) == maxProviderOptions {
			break
		}
		identity := strings.ToLower(opt.ServiceID)
		if identity == "" {
			identity = strings.ToLower(opt.ServiceName)
		}
		if identity == "" {
			continue
		}
		if _, ok := seen[identity]; ok {
			continue
		}
		seen[identity] = struct{}{}

		name := opt.ServiceName
		if name == "" {
			name = opt.ServiceID
		}
		accessType := opt.AccessType
		if accessType == "" {
			accessType = "subscription"
		}
		options = append(options, AvailabilityOption{
			Service: name,
			Type:    accessType,
			Link:    opt.Link,
			Quality: opt.Quality,
			Price:   opt.Price,
			Source:  SourceProvider,
		})
	}
	if len(options) > maxAvailabilityOptions {
		options = options[:maxAvailabilityOptions]
	}
	return options
}
