/*
Package datastoredb provides an implementation of github.com/alexandre-normand/slackrelay/store's
StringStorer interface backed by the Google Cloud Datastore. Using it for deduplication
state gives every instance of the bot a shared view of which events are in flight or
already handled, which matters when webhook deliveries land on more than one instance.

Example code:

	inFlight, err := datastoredb.New("dedupInFlight", "my-gcloud-project-id", option.WithCredentialsFile("credentials.json"))
	if err != nil {
		log.Fatalf("Error connecting to the datastore: %v", err)
	}
	defer inFlight.Close()

	guard := slackrelay.NewDedupGuard(slackrelay.WithInFlightStorer(inFlight))
*/
package datastoredb
