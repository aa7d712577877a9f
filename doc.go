// Package restclient provides a fluent, synchronous REST client built
// around a pluggable request/response pipeline: chainable request builders,
// an ordered message-converter registry, status-code-driven error dispatch,
// and resource-safe response consumption.
//
// A Client holds immutable shared configuration (default headers, status
// handlers, converters, transport factory, interceptors, initializers) and
// manufactures independent request builders. It is safe for concurrent use;
// each request/response pair is one linear unit of work.
//
// # Basic Usage
//
//	client := restclient.NewBuilder().
//	    BaseURL("https://api.example.com").
//	    DefaultHeader("Authorization", "Bearer "+token).
//	    Build()
//
//	rs, err := client.Get().URI("/users/{id}", 123).Retrieve(ctx)
//	if err != nil {
//	    return err
//	}
//	user, err := restclient.BodyAs[User](rs)
//
// # Status Handling
//
// Responses run through an ordered status-handler chain. Handlers
// registered on a response are always evaluated before the defaults, and a
// synthesized terminal handler turns any unhandled 4xx/5xx into a
// *ResponseError:
//
//	rs, _ := client.Get().URI("/users/{id}", id).Retrieve(ctx)
//	err := rs.OnStatus(restclient.StatusIs(404), func(req restclient.ClientRequest, resp restclient.ClientResponse) error {
//	    return ErrUserMissing
//	}).Body(&user)
//
// # Escape Hatch
//
// Exchange hands the raw request/response pair to a transform and
// optionally closes the response afterwards:
//
//	n, err := client.Get().URI("/export").Exchange(ctx,
//	    func(req restclient.ClientRequest, resp restclient.ClientResponse) (any, error) {
//	        return io.Copy(dst, resp.Body())
//	    }, true)
//
// Non-goals: retries, caching, pooling, and TLS configuration belong to the
// injected transport (see RequestFactory), not to this package.
package restclient
