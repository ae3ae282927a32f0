package models

const (
	ErrorMarker  = "[ERROR]: "
	CorpusLoaded = "Corpus Loaded."

	DefaultWordLength = 150
	DefaultBatchSize  = 1000
	DefaultTopK       = 5

	Temperature = 0.7
	MaxTokens   = 512
)

var (
	PromptInstructions = "Instructions: Compose a comprehensive reply to the query using the search results given. " +
		"Cite each reference using [Page Number] notation (every result has this number at the beginning). " +
		"Citation should be done at the end of each sentence. If the search results mention multiple subjects " +
		"with the same name, create separate answers for each. Only include information found in the results and " +
		"don't add any additional information. Make sure the answer is correct and don't output false content. " +
		"If the text does not relate to the query, simply state 'Text Not Found in PDF'. Ignore outlier " +
		"search results which has nothing to do with the question. Only answer what is asked. The " +
		"answer should be short and concise. Answer step-by-step."
)
